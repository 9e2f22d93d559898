package cli

import (
	"github.com/julianstephens/dayglow/internal/logger"
	"github.com/julianstephens/dayglow/internal/server"
)

type ServeCmd struct {
	Addr string `help:"Listen address for the check-in endpoint." default:"127.0.0.1:8787" env:"DAYGLOW_ADDR"`
}

func (c *ServeCmd) Run(ctx *Context) error {
	srv := server.New(c.Addr, logger.With("component", "server"))
	ctx.printf("Serving check-in endpoint on http://%s/api/checkin\n", c.Addr)
	return srv.ListenAndServe(ctx.context())
}
