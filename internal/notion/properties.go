package notion

import (
	"strings"
	"time"

	"github.com/jomei/notionapi"

	"github.com/mrlokans/kindle2notion/internal/entities"
)

func richText(content string) []notionapi.RichText {
	return []notionapi.RichText{{
		Type: notionapi.ObjectTypeText,
		Text: &notionapi.Text{Content: content},
	}}
}

func numberProperty(n int) *notionapi.NumberProperty {
	return &notionapi.NumberProperty{
		Type:   notionapi.PropertyTypeNumber,
		Number: float64(n),
	}
}

func dateProperty(t time.Time) *notionapi.DateProperty {
	start := notionapi.Date(t)
	return &notionapi.DateProperty{
		Type: notionapi.PropertyTypeDate,
		Date: &notionapi.DateObject{Start: &start},
	}
}

func paragraph(text string) *notionapi.ParagraphBlock {
	return &notionapi.ParagraphBlock{
		BasicBlock: notionapi.BasicBlock{
			Object: notionapi.ObjectTypeBlock,
			Type:   notionapi.BlockTypeParagraph,
		},
		Paragraph: notionapi.Paragraph{
			RichText: richText(text),
		},
	}
}

// recordFromPage decodes the typed book view of a page. Missing or empty
// properties stay nil.
func recordFromPage(page *notionapi.Page) entities.BookRecord {
	record := entities.BookRecord{
		ID: string(page.ID),
	}

	if p, ok := page.Properties[PropTitle].(*notionapi.TitleProperty); ok {
		record.Title = plainText(p.Title)
	}
	if p, ok := page.Properties[PropAuthor].(*notionapi.RichTextProperty); ok {
		record.Author = plainText(p.RichText)
	}
	if p, ok := page.Properties[PropHighlights].(*notionapi.NumberProperty); ok {
		count := int(p.Number)
		record.HighlightCount = &count
	}
	record.LastHighlighted = dateValue(page.Properties[PropLastHighlighted])
	record.LastSynced = dateValue(page.Properties[PropLastSynced])

	if page.Cover != nil && page.Cover.External != nil {
		record.CoverURL = page.Cover.External.URL
	}

	return record
}

func dateValue(prop notionapi.Property) *time.Time {
	p, ok := prop.(*notionapi.DateProperty)
	if !ok || p.Date == nil || p.Date.Start == nil {
		return nil
	}
	t := time.Time(*p.Date.Start)
	if t.IsZero() {
		return nil
	}
	return &t
}

func plainText(parts []notionapi.RichText) string {
	var b strings.Builder
	for _, part := range parts {
		switch {
		case part.PlainText != "":
			b.WriteString(part.PlainText)
		case part.Text != nil:
			b.WriteString(part.Text.Content)
		}
	}
	return b.String()
}
