package transform

import "github.com/dtnitsch/planning-repo/models"

// SearchKeywords lists plan number, city, plan type and status, followed by the
// info label of every appendix. Order is kept and duplicates are not removed.
func SearchKeywords(rec models.RawPlanRecord) ([]string, error) {
	keywords := []string{}

	for _, v := range []any{rec.PlanNumber(), rec.CityText(), rec.Mahut(), rec.Status()} {
		if models.Truthy(v) {
			keywords = append(keywords, models.Text(v))
		}
	}

	docs, err := rec.DocumentsSet()
	if err != nil {
		return nil, err
	}
	if !docs.Present(models.DocNispachim) {
		return keywords, nil
	}

	appendices, err := docs.Entries(models.DocNispachim)
	if err != nil {
		return nil, err
	}
	for _, a := range appendices {
		if info := a.Info(); models.Truthy(info) {
			keywords = append(keywords, models.Text(info))
		}
	}

	return keywords, nil
}
