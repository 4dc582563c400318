package reports

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/nonsonwune/admitere_admin/forms"
)

// Filter limits reports to results created between Start and End, inclusive. Both are
// optional ISO dates.
type Filter struct {
	Start string
	End   string
}

func (f Filter) Query() (url.Values, forms.ValidationErrors) {
	var errs forms.ValidationErrors
	start, okStart := parseDate(&errs, "start", f.Start)
	end, okEnd := parseDate(&errs, "end", f.End)
	if !errs.OK() {
		return nil, errs
	}
	if okStart && okEnd && start.After(end) {
		return nil, forms.ValidationErrors{{Field: "start", Message: "Data start nu poate fi dupa data final."}}
	}
	q := url.Values{}
	if okStart {
		q.Set("start", start.Format(time.DateOnly))
	}
	if okEnd {
		q.Set("end", end.Format(time.DateOnly))
	}
	return q, nil
}

func parseDate(errs *forms.ValidationErrors, field, value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		*errs = append(*errs, forms.FieldError{Field: field, Message: fmt.Sprintf("Data invalida: %s.", value)})
		return time.Time{}, false
	}
	return t, true
}
