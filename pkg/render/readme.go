// Package render produces the human-readable README.md for a plan.
package render

import (
	"fmt"
	"strings"

	"github.com/dtnitsch/planning-repo/models"
)

// Unknown is printed for basic fields missing from the record.
const Unknown = "לא ידוע"

// PlanReadme renders the summary document of a plan.
// Sections appear in a fixed order; document sections only when present.
func PlanReadme(rec models.RawPlanRecord, md *models.PlanMetadata) string {
	planNumber := fieldOrUnknown(rec, models.KeyPlanNumber)
	city := fieldOrUnknown(rec, models.KeyCityText)
	mahut := fieldOrUnknown(rec, models.KeyMahut)
	status := fieldOrUnknown(rec, models.KeyStatus)

	statusDate := Unknown
	if rec.HasStatusDate() {
		statusDate = rec.StatusDate()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# 📋 תוכנית %s - %s\n\n", planNumber, city)
	sb.WriteString("## GitMCP Search Keywords\n")
	fmt.Fprintf(&sb, "%s, %s, %s, %s\n\n", planNumber, city, mahut, status)

	sb.WriteString("## מידע בסיסי\n")
	fmt.Fprintf(&sb, "- **מספר תוכנית:** %s\n", planNumber)
	fmt.Fprintf(&sb, "- **עיר:** %s\n", city)
	fmt.Fprintf(&sb, "- **מהות:** %s\n", mahut)
	fmt.Fprintf(&sb, "- **סטטוס:** %s\n", status)
	fmt.Fprintf(&sb, "- **תאריך סטטוס:** %s\n\n", statusDate)

	sb.WriteString("## מסמכים זמינים\n\n")

	if md != nil {
		writeDocuments(&sb, md.DocumentsInventory)
	}

	sb.WriteString("\n## 🔍 מידע נוסף\n")
	sb.WriteString("למידע מפורט נוסף, עיין בקובץ `plan_metadata.json` בתיקייה זו.\n\n")
	sb.WriteString("---\n")
	sb.WriteString("*מעובד אוטומטית ממאגר תוכניות הבנייה הישראלי*\n")

	return sb.String()
}

func writeDocuments(sb *strings.Builder, docs models.DocumentsInventory) {
	if docs.Takanon != nil {
		sb.WriteString("### 📜 תקנון\n")
		fmt.Fprintf(sb, "- %s\n\n", models.Text(docs.Takanon.Description))
	}

	if len(docs.Tasritim) > 0 {
		sb.WriteString("### 🗺️ תשריטים\n")
		for _, t := range docs.Tasritim {
			fmt.Fprintf(sb, "- %s\n", models.Text(t.Type))
		}
		sb.WriteString("\n")
	}

	if len(docs.Nispachim) > 0 {
		sb.WriteString("### 📎 נספחים\n")
		for _, n := range docs.Nispachim {
			fmt.Fprintf(sb, "- %s\n", models.Text(n.Type))
		}
		sb.WriteString("\n")
	}
}

// fieldOrUnknown returns the record's value as text, or Unknown when the key is
// missing or null.
func fieldOrUnknown(rec models.RawPlanRecord, key string) string {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return Unknown
	}
	return models.Text(v)
}
