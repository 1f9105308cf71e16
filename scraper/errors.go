package scraper

import (
	"errors"
	"fmt"

	"github.com/aluiziolira/go-scrape-evds/models"
)

// Stage names, in the order a scrape runs them.
const (
	StageValidate  = "validate"
	StageNavigate  = "navigate"
	StageGather    = "gather"
	StageFillForm  = "fill form"
	StageSubmit    = "submit"
	StageSnapshot  = "snapshot"
	StageReadTable = "read table"
	StageConvert   = "convert"
)

// ErrStage reports which stage of a scrape failed.
type ErrStage struct {
	Stage string
	Err   error
}

func (e ErrStage) Error() string {
	return fmt.Errorf("%s: %w", e.Stage, e.Err).Error()
}

func (e ErrStage) Unwrap() error {
	return e.Err
}

// FailedStage returns the stage err was raised in, or "".
func FailedStage(err error) string {
	var stage ErrStage
	if errors.As(err, &stage) {
		return stage.Stage
	}
	return ""
}

func errorTypeLabel(err error) string {
	return models.ErrorKind(err)
}
