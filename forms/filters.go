package forms

import (
	"net/url"
	"strconv"
	"strings"
)

type CandidatFilter struct {
	Nume    string
	Prenume string
	Email   string
}

// Query keeps only the non-blank criteria, trimmed.
func (f CandidatFilter) Query() url.Values {
	q := url.Values{}
	setTrimmed(q, "nume", f.Nume)
	setTrimmed(q, "prenume", f.Prenume)
	setTrimmed(q, "email", f.Email)
	return q
}

// ProgramFilter bounds the seat capacities of listed programs.
type ProgramFilter struct {
	BugetMin string
	BugetMax string
	TaxaMin  string
	TaxaMax  string
}

// Query validates the bounds and builds the list query. Nothing should be sent when
// errors are returned.
func (f ProgramFilter) Query() (url.Values, ValidationErrors) {
	var errs ValidationErrors
	bugetMin, okBugetMin := optionalBound(&errs, "locuriBugetMin", "buget minim", f.BugetMin)
	bugetMax, okBugetMax := optionalBound(&errs, "locuriBugetMax", "buget maxim", f.BugetMax)
	taxaMin, okTaxaMin := optionalBound(&errs, "locuriTaxaMin", "taxa minima", f.TaxaMin)
	taxaMax, okTaxaMax := optionalBound(&errs, "locuriTaxaMax", "taxa maxima", f.TaxaMax)
	if !errs.OK() {
		return nil, errs
	}
	if okBugetMin && okBugetMax && bugetMin > bugetMax {
		errs.add("locuriBugetMin", "Buget minim nu poate fi mai mare decat buget maxim.")
	}
	if okTaxaMin && okTaxaMax && taxaMin > taxaMax {
		errs.add("locuriTaxaMin", "Taxa minima nu poate fi mai mare decat taxa maxima.")
	}
	if !errs.OK() {
		return nil, errs
	}

	q := url.Values{}
	setTrimmed(q, "locuriBugetMin", f.BugetMin)
	setTrimmed(q, "locuriBugetMax", f.BugetMax)
	setTrimmed(q, "locuriTaxaMin", f.TaxaMin)
	setTrimmed(q, "locuriTaxaMax", f.TaxaMax)
	return q, nil
}

func optionalBound(errs *ValidationErrors, field, label, value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		errs.add(field, numericMessage(label))
		return 0, false
	}
	return n, true
}

func setTrimmed(q url.Values, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		q.Set(key, value)
	}
}
