package orcid

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var idPattern = regexp.MustCompile(`^\d{4}-\d{4}-\d{4}-\d{3}[\dX]$`)

// ValidID reports whether id has the NNNN-NNNN-NNNN-NNNX shape.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

// Profile is the projection of a researcher record used locally.
type Profile struct {
	OrcidID     string `json:"orcid_id"`
	GivenName   string `json:"first_name"`
	FamilyName  string `json:"last_name"`
	CreditName  string `json:"credit_name"`
	Email       string `json:"email"`
	Affiliation string `json:"affiliation"`
}

// ExtractProfile maps a person record. Missing fields are empty.
func ExtractProfile(orcidID string, doc Node) Profile {
	person := doc.Get("person")
	name := person.Get("name")
	return Profile{
		OrcidID:     orcidID,
		GivenName:   strings.TrimSpace(name.Get("given-names", "value").String()),
		FamilyName:  strings.TrimSpace(name.Get("family-name", "value").String()),
		CreditName:  strings.TrimSpace(name.Get("credit-name", "value").String()),
		Email:       strings.TrimSpace(person.Get("emails", "email").Index(0).Get("email").String()),
		Affiliation: strings.TrimSpace(person.Get("employments", "employment-summary").Index(0).Get("organization", "name").String()),
	}
}

// DisplayName is the given and family name, falling back to the credit name.
func (p Profile) DisplayName() string {
	full := strings.TrimSpace(p.GivenName + " " + p.FamilyName)
	if full == "" {
		return p.CreditName
	}
	return full
}

// PreferredSummary picks the summary with the largest serialization from a
// work group. Ties keep the earliest entry.
func PreferredSummary(group Node) (Node, bool) {
	best := Node{}
	bestSize := -1
	for _, s := range group.Get("work-summary").List() {
		if !s.Present() {
			continue
		}
		if size := s.Size(); size > bestSize {
			best, bestSize = s, size
		}
	}
	return best, bestSize >= 0
}

type externalID struct {
	kind  string
	value string
}

func externalIDs(summary Node) []externalID {
	var out []externalID
	for _, e := range summary.Get("external-ids", "external-id").List() {
		out = append(out, externalID{
			kind:  strings.TrimSpace(e.Get("external-id-type").String()),
			value: strings.TrimSpace(e.Get("external-id-value").String()),
		})
	}
	return out
}

func firstOfType(summary Node, kind string) (string, bool) {
	for _, e := range externalIDs(summary) {
		if strings.EqualFold(e.kind, kind) && e.value != "" {
			return e.value, true
		}
	}
	return "", false
}

// DOI returns the first DOI-typed identifier.
func DOI(summary Node) (string, bool) {
	return firstOfType(summary, "doi")
}

// URL returns the first URL-typed identifier, or a doi.org link built from the DOI.
func URL(summary Node) (string, bool) {
	if u, ok := firstOfType(summary, "url"); ok {
		return u, true
	}
	if doi, ok := DOI(summary); ok {
		return "https://doi.org/" + doi, true
	}
	return "", false
}

// Title returns the work title when non-blank.
func Title(summary Node) (string, bool) {
	t := strings.TrimSpace(summary.Get("title", "title", "value").String())
	return t, t != ""
}

// PutCode returns the registry's internal work code.
func PutCode(summary Node) (string, bool) {
	code := strings.TrimSpace(summary.Get("put-code").String())
	return code, code != ""
}

// ExternalID derives the local deduplication key. Priority: DOI, the first
// listed identifier when complete, the registry work code, the title. A work with
// none of these has no key and must be skipped.
func ExternalID(summary Node) (string, bool) {
	if doi, ok := DOI(summary); ok {
		return "doi:" + doi, true
	}
	if ids := externalIDs(summary); len(ids) > 0 && ids[0].kind != "" && ids[0].value != "" {
		return ids[0].kind + ":" + ids[0].value, true
	}
	if code, ok := PutCode(summary); ok {
		return "orcid_work:" + code, true
	}
	if title, ok := Title(summary); ok {
		return "title:" + title, true
	}
	return "", false
}

// JournalTitle is the venue discriminator: empty means conference.
func JournalTitle(summary Node) string {
	return strings.TrimSpace(summary.Get("journal-title", "value").String())
}

const maxCalendarYear = 9999

func dateComponent(summary Node, part string, lo, hi int) *int {
	raw, ok := summary.Get("publication-date", part, "value").Text()
	if !ok || raw == "" {
		return nil
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return nil
		}
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || n > hi {
		return nil
	}
	return &n
}

// PublicationDateParts returns year, month and day. Non-numeric or out of
// range components are absent.
func PublicationDateParts(summary Node) (year, month, day *int) {
	return dateComponent(summary, "year", 1, math.MaxInt32),
		dateComponent(summary, "month", 1, 12),
		dateComponent(summary, "day", 1, 31)
}

// CalendarDate builds a date from the parts, defaulting month and day to 1.
// It is absent without a year, past year 9999, or when the combination does
// not exist.
func CalendarDate(year, month, day *int) (time.Time, bool) {
	if year == nil || *year > maxCalendarYear {
		return time.Time{}, false
	}
	m, d := 1, 1
	if month != nil {
		m = *month
	}
	if day != nil {
		d = *day
	}
	t := time.Date(*year, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != *year || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

// Work is the flattened form of a preferred work summary.
type Work struct {
	PutCode          string     `json:"put_code,omitempty"`
	Title            string     `json:"title"`
	Type             string     `json:"type"`
	JournalTitle     string     `json:"journal"`
	ShortDescription *string    `json:"short_description,omitempty"`
	ExternalID       *string    `json:"external_id"`
	DOI              *string    `json:"doi"`
	URL              *string    `json:"url"`
	Year             *int       `json:"year"`
	Month            *int       `json:"month,omitempty"`
	Day              *int       `json:"day,omitempty"`
	Date             *time.Time `json:"-"`
}

// IsJournalArticle reports whether the work was published in a journal.
func (w Work) IsJournalArticle() bool { return w.JournalTitle != "" }

func optional(v string, ok bool) *string {
	if !ok {
		return nil
	}
	return &v
}

// ExtractWork flattens a work summary. Title defaults to "untitled".
func ExtractWork(summary Node) Work {
	w := Work{
		Type:         strings.TrimSpace(summary.Get("type").String()),
		JournalTitle: JournalTitle(summary),
		ExternalID:   optional(ExternalID(summary)),
		DOI:          optional(DOI(summary)),
		URL:          optional(URL(summary)),
	}
	w.PutCode, _ = PutCode(summary)
	if t, ok := Title(summary); ok {
		w.Title = t
	} else {
		w.Title = "untitled"
	}
	if desc := strings.TrimSpace(summary.Get("short-description").String()); desc != "" {
		w.ShortDescription = &desc
	}
	w.Year, w.Month, w.Day = PublicationDateParts(summary)
	if d, ok := CalendarDate(w.Year, w.Month, w.Day); ok {
		w.Date = &d
	}
	return w
}
