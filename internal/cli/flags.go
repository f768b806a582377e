package cli

import (
	"time"

	"github.com/alexanderramin/trackline/internal/domain"
	"github.com/spf13/pflag"
)

// dateValue is a flag holding an optional calendar date. An empty value
// clears it.
type dateValue struct {
	target **time.Time
}

var _ pflag.Value = (*dateValue)(nil)

func newDateValue(target **time.Time) *dateValue {
	return &dateValue{target: target}
}

func (d *dateValue) Set(s string) error {
	t, err := domain.ParseOptionalDate(s)
	if err != nil {
		return err
	}
	*d.target = t
	return nil
}

func (d *dateValue) String() string {
	if d.target == nil {
		return ""
	}
	return domain.FormatOptionalDate(*d.target)
}

func (d *dateValue) Type() string { return "date" }

// dateFlag registers a YYYY-MM-DD flag bound to target.
func dateFlag(fs *pflag.FlagSet, target **time.Time, name, usage string) {
	fs.Var(newDateValue(target), name, usage)
}
