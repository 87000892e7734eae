package orcid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) Node {
	t.Helper()
	n, err := Parse([]byte(raw))
	require.NoError(t, err)
	return n
}

func TestValidID(t *testing.T) {
	assert.True(t, ValidID("0000-0002-1825-0097"))
	assert.True(t, ValidID("0000-0002-1694-233X"))
	assert.False(t, ValidID("0000-0002-1694-233x"))
	assert.False(t, ValidID("0000-0002-1825-009"))
	assert.False(t, ValidID("00000002-1825-0097"))
	assert.False(t, ValidID(""))
}

func TestExtractProfile(t *testing.T) {
	doc := mustParse(t, `{
		"person": {
			"name": {
				"given-names": {"value": " Josiah "},
				"family-name": {"value": "Carberry"},
				"credit-name": {"value": "J. S. Carberry"}
			},
			"emails": {"email": [{"email": "jcarberry@example.edu"}]},
			"employments": {"employment-summary": [{"organization": {"name": "Brown University"}}]}
		}
	}`)

	p := ExtractProfile("0000-0002-1825-0097", doc)
	assert.Equal(t, "Josiah", p.GivenName)
	assert.Equal(t, "Carberry", p.FamilyName)
	assert.Equal(t, "jcarberry@example.edu", p.Email)
	assert.Equal(t, "Brown University", p.Affiliation)
	assert.Equal(t, "Josiah Carberry", p.DisplayName())
}

func TestExtractProfile_MissingSections(t *testing.T) {
	p := ExtractProfile("0000-0002-1825-0097", mustParse(t, `{"person": {"name": null}}`))
	assert.Empty(t, p.GivenName)
	assert.Empty(t, p.Email)
	assert.Empty(t, p.Affiliation)

	p.CreditName = "Credit Only"
	assert.Equal(t, "Credit Only", p.DisplayName())
}

func TestPreferredSummary_LargestWinsFirstOnTie(t *testing.T) {
	group := mustParse(t, `{"work-summary": [
		{"put-code": 1, "title": {"title": {"value": "aa"}}},
		{"put-code": 2, "title": {"title": {"value": "bbbb"}}},
		{"put-code": 3, "title": {"title": {"value": "cccc"}}}
	]}`)
	s, ok := PreferredSummary(group)
	require.True(t, ok)
	code, _ := PutCode(s)
	assert.Equal(t, "2", code)

	_, ok = PreferredSummary(mustParse(t, `{"work-summary": []}`))
	assert.False(t, ok)
}

func TestExternalID_Priority(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{
			name: "doi first",
			raw: `{"put-code": 9, "external-ids": {"external-id": [
				{"external-id-type": "eid", "external-id-value": "2-s2.0-1"},
				{"external-id-type": "doi", "external-id-value": "10.1/abc"}]}}`,
			want: "doi:10.1/abc", ok: true,
		},
		{
			name: "first identifier of any kind",
			raw: `{"put-code": 9, "external-ids": {"external-id": [
				{"external-id-type": "eid", "external-id-value": "2-s2.0-1"},
				{"external-id-type": "isbn", "external-id-value": "978"}]}}`,
			want: "eid:2-s2.0-1", ok: true,
		},
		{
			name: "incomplete first identifier falls through to put code",
			raw: `{"put-code": 9, "external-ids": {"external-id": [
				{"external-id-type": "eid", "external-id-value": ""},
				{"external-id-type": "isbn", "external-id-value": "978"}]}}`,
			want: "orcid_work:9", ok: true,
		},
		{
			name: "put code",
			raw:  `{"put-code": 12345, "title": {"title": {"value": "T"}}}`,
			want: "orcid_work:12345", ok: true,
		},
		{
			name: "title",
			raw:  `{"title": {"title": {"value": "Only a title"}}}`,
			want: "title:Only a title", ok: true,
		},
		{
			name: "nothing",
			raw:  `{"title": {"title": {"value": "   "}}}`,
			ok:   false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExternalID(mustParse(t, tc.raw))
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestURL_FallsBackToDOI(t *testing.T) {
	s := mustParse(t, `{"external-ids": {"external-id": [{"external-id-type": "doi", "external-id-value": "10.1/x"}]}}`)
	u, ok := URL(s)
	require.True(t, ok)
	assert.Equal(t, "https://doi.org/10.1/x", u)

	s = mustParse(t, `{"external-ids": {"external-id": [
		{"external-id-type": "doi", "external-id-value": "10.1/x"},
		{"external-id-type": "url", "external-id-value": "https://example.org/p"}]}}`)
	u, _ = URL(s)
	assert.Equal(t, "https://example.org/p", u)
}

func TestPublicationDateParts_InvalidComponentsAreAbsent(t *testing.T) {
	s := mustParse(t, `{"publication-date": {"year": {"value": "2021"}, "month": {"value": "13"}, "day": {"value": "32"}}}`)
	y, m, d := PublicationDateParts(s)
	require.NotNil(t, y)
	assert.Equal(t, 2021, *y)
	assert.Nil(t, m)
	assert.Nil(t, d)

	date, ok := CalendarDate(y, m, d)
	require.True(t, ok)
	assert.Equal(t, "2021-01-01", date.Format("2006-01-02"))

	s = mustParse(t, `{"publication-date": {"year": {"value": "20x1"}}}`)
	y, _, _ = PublicationDateParts(s)
	assert.Nil(t, y)
}

func TestCalendarDate_ImpossibleDay(t *testing.T) {
	y, m, d := 2023, 2, 30
	_, ok := CalendarDate(&y, &m, &d)
	assert.False(t, ok)

	_, ok = CalendarDate(nil, &m, nil)
	assert.False(t, ok)
}

func TestExtractWork(t *testing.T) {
	s := mustParse(t, `{
		"put-code": 77,
		"type": "journal-article",
		"title": {"title": {"value": "Graphene"}},
		"journal-title": {"value": "Nature"},
		"external-ids": {"external-id": [{"external-id-type": "doi", "external-id-value": "10.1/g"}]},
		"publication-date": {"year": {"value": "2020"}, "month": {"value": "05"}, "day": null}
	}`)
	w := ExtractWork(s)
	assert.Equal(t, "Graphene", w.Title)
	assert.Equal(t, "77", w.PutCode)
	assert.True(t, w.IsJournalArticle())
	require.NotNil(t, w.ExternalID)
	assert.Equal(t, "doi:10.1/g", *w.ExternalID)
	require.NotNil(t, w.Month)
	assert.Equal(t, 5, *w.Month)
	assert.Nil(t, w.Day)
	require.NotNil(t, w.Date)
	assert.Equal(t, "2020-05-01", w.Date.Format("2006-01-02"))

	untitled := ExtractWork(mustParse(t, `{"put-code": 1}`))
	assert.Equal(t, "untitled", untitled.Title)
	assert.False(t, untitled.IsJournalArticle())
}

func TestPublicationDateParts_FarFutureYearKeepsYearOnly(t *testing.T) {
	s := mustParse(t, `{"publication-date": {"year": {"value": "20210"}, "month": {"value": "04"}}}`)
	year, month, _ := PublicationDateParts(s)
	require.NotNil(t, year)
	assert.Equal(t, 20210, *year)
	require.NotNil(t, month)

	_, ok := CalendarDate(year, month, nil)
	assert.False(t, ok)
}
