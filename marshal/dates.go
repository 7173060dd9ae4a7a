package marshal

import (
	"errors"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/cdsmodel/cellbridge/analytics"
	"github.com/cdsmodel/cellbridge/domain/entities"
	domainerrors "github.com/cdsmodel/cellbridge/domain/errors"
)

// ReadDateOrInterval reads a date given either literally or as a tenor from
// anchor. A serial number is tried first, then text as a literal date, then
// text as an interval rolled forward from anchor without business day
// adjustment. Index is the 1-based element position used in messages.
func ReadDateOrInterval(v entities.Value, anchor analytics.Date, param string, index int) (analytics.Date, error) {
	v, err := scalarOf(v, param)
	if err != nil {
		return 0, err
	}
	if isMissing(v) {
		return 0, &domainerrors.MissingRequiredError{Param: param}
	}
	return dateOrInterval(v, anchor, param, index)
}

// ReadDateOrIntervalArray reads a column of dates or tenors with the arity
// rules of ReadArray.
func ReadDateOrIntervalArray(v entities.Value, anchor analytics.Date, param string, expected int, mandatory bool) ([]analytics.Date, error) {
	cells, err := cellsOf(v, param, expected, mandatory)
	if err != nil || cells == nil {
		return nil, err
	}
	out := make([]analytics.Date, len(cells))
	for i, c := range cells {
		if out[i], err = dateOrInterval(c, anchor, param, i+1); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func dateOrInterval(v entities.Value, anchor analytics.Date, param string, index int) (analytics.Date, error) {
	d, dateErr := Date.Convert(v)
	if dateErr == nil {
		return d, nil
	}
	text, ok := v.(entities.Text)
	if !ok {
		return 0, &domainerrors.InvalidDateOrIntervalError{
			Err: dateErr, Param: param, Input: entities.Format(v), Index: index,
		}
	}
	s := strings.TrimSpace(norm.NFKC.String(string(text)))
	if d, err := analytics.ParseDate(s); err == nil {
		return d, nil
	}
	ivl, err := analytics.ParseInterval(s)
	if err != nil {
		return 0, &domainerrors.InvalidDateOrIntervalError{
			Err:   errors.Join(errNotDate, err),
			Param: param, Input: string(text), Index: index,
		}
	}
	return analytics.DateFwdThenAdjust(anchor, ivl, analytics.BadDayNone, nil), nil
}

var errNotDate = errors.New("not a literal date")
