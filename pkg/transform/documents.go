package transform

import "github.com/dtnitsch/planning-repo/models"

// ClassifyDocuments buckets a documentsSet into the known categories.
// A category appears in the inventory only when its raw value is present and
// non-empty. List categories keep source order.
func ClassifyDocuments(docs models.DocumentsSet) (models.DocumentsInventory, error) {
	var inv models.DocumentsInventory

	if docs.Present(models.DocTakanon) {
		e, err := docs.Entry(models.DocTakanon)
		if err != nil {
			return inv, err
		}
		inv.Takanon = &models.RegulationDoc{
			Available:   true,
			Path:        e.Path(),
			Description: e.InfoOr(TakanonFallback),
		}
	}

	if docs.Present(models.DocNispachim) {
		entries, err := docs.Entries(models.DocNispachim)
		if err != nil {
			return inv, err
		}
		inv.Nispachim = make([]models.Appendix, 0, len(entries))
		for _, e := range entries {
			inv.Nispachim = append(inv.Nispachim, models.Appendix{
				Type: e.Info(),
				Path: e.Path(),
				Code: e.Code(),
			})
		}
	}

	if docs.Present(models.DocTasritim) {
		entries, err := docs.Entries(models.DocTasritim)
		if err != nil {
			return inv, err
		}
		inv.Tasritim = make([]models.Drawing, 0, len(entries))
		for _, e := range entries {
			inv.Tasritim = append(inv.Tasritim, models.Drawing{
				Type: e.Info(),
				Path: e.Path(),
			})
		}
	}

	if docs.Present(models.DocMMG) {
		e, err := docs.Entry(models.DocMMG)
		if err != nil {
			return inv, err
		}
		inv.MMG = &models.GeoData{
			Available:   true,
			Path:        e.Path(),
			Description: e.Info(),
		}
	}

	if docs.Present(models.DocMap) {
		e, err := docs.Entry(models.DocMap)
		if err != nil {
			return inv, err
		}
		inv.GovernmentMap = &models.MapLink{
			URL:         e.Path(),
			Description: e.Info(),
		}
	}

	return inv, nil
}
