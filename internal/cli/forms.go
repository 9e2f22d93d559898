package cli

import (
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/dayglow/internal/constants"
)

// runForm is swapped out in tests.
var runForm = func(f *huh.Form) error { return f.Run() }

func ratingOptions() []huh.Option[int] {
	opts := make([]huh.Option[int], 0, constants.MaxRating-constants.MinRating+1)
	for v := constants.MinRating; v <= constants.MaxRating; v++ {
		opts = append(opts, huh.NewOption(strconv.Itoa(v), v))
	}
	return opts
}
