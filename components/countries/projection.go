// components/countries/projection.go
//
// Wire shapes.  The list projection is deliberately small; the detail
// projection carries every column plus the derived capital and
// primary_timezone fields ("N/A" when unknown).

package countries

import (
	"time"

	"github.com/yanizio/countries/internal/country"
)

type listItem struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	CCA2       string `json:"cca2"`
	CCA3       string `json:"cca3"`
	Flag       string `json:"flag"`
	Region     string `json:"region"`
	Population int64  `json:"population"`
	Capital    string `json:"capital"`
}

type listPage struct {
	Number     int        `json:"page"`
	Size       int        `json:"page_size"`
	Total      int        `json:"count"`
	TotalPages int        `json:"total_pages"`
	HasNext    bool       `json:"has_next"`
	HasPrev    bool       `json:"has_previous"`
	Results    []listItem `json:"results"`
}

type detail struct {
	ID              int64               `json:"id"`
	Name            string              `json:"name"`
	OfficialName    string              `json:"official_name"`
	CCA2            string              `json:"cca2"`
	CCA3            string              `json:"cca3"`
	Flag            string              `json:"flag"`
	Region          string              `json:"region"`
	Subregion       string              `json:"subregion"`
	Population      int64               `json:"population"`
	Languages       country.StringMap   `json:"languages"`
	Timezones       country.StringList  `json:"timezones"`
	Capitals        country.StringList  `json:"capitals"`
	Currencies      country.CurrencyMap `json:"currencies"`
	Borders         country.StringList  `json:"borders"`
	Capital         string              `json:"capital"`
	PrimaryTimezone string              `json:"primary_timezone"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

func pageOf(p country.Page) listPage {
	out := listPage{
		Number:     p.Number,
		Size:       p.Size,
		Total:      p.Total,
		TotalPages: p.TotalPages,
		HasNext:    p.HasNext,
		HasPrev:    p.HasPrev,
		Results:    make([]listItem, 0, len(p.Items)),
	}
	for i := range p.Items {
		rec := &p.Items[i]
		out.Results = append(out.Results, listItem{
			ID:         rec.ID,
			Name:       rec.Name,
			CCA2:       rec.CCA2,
			CCA3:       rec.CCA3,
			Flag:       rec.Flag,
			Region:     rec.Region,
			Population: rec.Population,
			Capital:    rec.Capital(),
		})
	}
	return out
}

func detailOf(rec *country.Record) detail {
	return detail{
		ID:              rec.ID,
		Name:            rec.Name,
		OfficialName:    rec.OfficialName,
		CCA2:            rec.CCA2,
		CCA3:            rec.CCA3,
		Flag:            rec.Flag,
		Region:          rec.Region,
		Subregion:       rec.Subregion,
		Population:      rec.Population,
		Languages:       rec.Languages,
		Timezones:       rec.Timezones,
		Capitals:        rec.Capitals,
		Currencies:      rec.Currencies,
		Borders:         rec.Borders,
		Capital:         rec.Capital(),
		PrimaryTimezone: rec.PrimaryTimezone(),
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
	}
}
