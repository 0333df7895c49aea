package notion

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"
	"github.com/tlegrand/mapscan"
)

// Compile-time interface verification.
var _ mapscan.RecordService = (*RecordService)(nil)

// Prospection database property names. The database predates this tool and
// uses French labels.
const (
	propName     = "Nom"
	propPhone    = "Téléphone"
	propWebsite  = "Site Web"
	propCity     = "Ville"
	propCategory = "Type d'entreprise"
	propStatus   = "Statut"
	propComments = "Commentaires"

	// initialStatus is the pipeline status assigned to every new record.
	initialStatus = "À contacter"
)

// RecordService implements mapscan.RecordService against a Notion
// prospection database.
type RecordService struct {
	client Client
	dbID   string
}

// NewRecordService creates a RecordService writing to the given database.
func NewRecordService(client Client, databaseID string) *RecordService {
	return &RecordService{client: client, dbID: databaseID}
}

// RecordExists reports whether a record with the exact name already exists,
// matching on the title property.
func (s *RecordService) RecordExists(ctx context.Context, name string) (bool, error) {
	resp, err := s.queryByName(ctx, name)
	if err != nil {
		return false, fmt.Errorf("duplicate check for %q: %w", name, err)
	}
	return len(resp.Results) > 0, nil
}

// queryByName runs the exact-title query used for duplicate checks and
// status updates.
func (s *RecordService) queryByName(ctx context.Context, name string) (*notionapi.DatabaseQueryResponse, error) {
	return s.client.QueryDatabase(ctx, s.dbID, &notionapi.DatabaseQueryRequest{
		Filter: notionapi.PropertyFilter{
			Property: propName,
			RichText: &notionapi.TextFilterCondition{
				Equals: name,
			},
		},
	})
}

// CreateRecord creates a new page for the business. Placeholder fields are
// omitted rather than written out, so the database stays queryable on
// genuinely known values.
func (s *RecordService) CreateRecord(ctx context.Context, b *mapscan.Business) error {
	if err := b.Validate(); err != nil {
		return err
	}

	props := notionapi.Properties{
		propName: notionapi.TitleProperty{
			Title: richText(b.Name),
		},
		propCity: notionapi.RichTextProperty{
			RichText: richText(b.City),
		},
		propCategory: notionapi.SelectProperty{
			Select: notionapi.Option{Name: b.Category},
		},
		propStatus: notionapi.SelectProperty{
			Select: notionapi.Option{Name: initialStatus},
		},
		propComments: notionapi.RichTextProperty{
			RichText: richText(comments(b)),
		},
	}

	if b.Phone != mapscan.Unspecified && b.Phone != "" {
		props[propPhone] = notionapi.PhoneNumberProperty{PhoneNumber: b.Phone}
	}
	if b.Website != mapscan.Unspecified && b.Website != "" {
		props[propWebsite] = notionapi.URLProperty{URL: b.Website}
	}

	_, err := s.client.CreatePage(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(s.dbID),
		},
		Properties: props,
	})
	if err != nil {
		return fmt.Errorf("create record %q: %w", b.Name, err)
	}
	return nil
}

// UpdateRecordStatus moves the named record to a new pipeline status, for
// example from "À contacter" to "Contacté".
func (s *RecordService) UpdateRecordStatus(ctx context.Context, name, status string) error {
	resp, err := s.queryByName(ctx, name)
	if err != nil {
		return fmt.Errorf("status update for %q: %w", name, err)
	}
	if len(resp.Results) == 0 {
		return mapscan.Errorf(mapscan.ENOTFOUND, "record %q not found", name)
	}

	_, err = s.client.UpdatePage(ctx, string(resp.Results[0].ID), &notionapi.PageUpdateRequest{
		Properties: notionapi.Properties{
			propStatus: notionapi.SelectProperty{
				Select: notionapi.Option{Name: status},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("status update for %q: %w", name, err)
	}
	return nil
}

// FindRecordNamesByStatus lists the names of records currently in the given
// pipeline status.
func (s *RecordService) FindRecordNamesByStatus(ctx context.Context, status string) ([]string, error) {
	resp, err := s.client.QueryDatabase(ctx, s.dbID, &notionapi.DatabaseQueryRequest{
		Filter: notionapi.PropertyFilter{
			Property: propStatus,
			Select: &notionapi.SelectFilterCondition{
				Equals: status,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("status query for %q: %w", status, err)
	}

	var names []string
	for _, page := range resp.Results {
		if name := pageTitle(page); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// pageTitle pulls the plain-text name out of a page's title property.
func pageTitle(page notionapi.Page) string {
	var title []notionapi.RichText
	switch prop := page.Properties[propName].(type) {
	case *notionapi.TitleProperty:
		title = prop.Title
	case notionapi.TitleProperty:
		title = prop.Title
	default:
		return ""
	}

	var out string
	for _, rt := range title {
		if rt.PlainText != "" {
			out += rt.PlainText
		} else if rt.Text != nil {
			out += rt.Text.Content
		}
	}
	return out
}

// comments assembles the free-text comment block. The database has no
// dedicated columns for address, open status, rating or review count, so
// they ride along here.
func comments(b *mapscan.Business) string {
	text := fmt.Sprintf("Adresse: %s\nStatut ouverture: %s", b.Address, b.OpenStatus)
	if b.Rating != nil {
		text += fmt.Sprintf("\nNote: %.1f/5", *b.Rating)
	}
	if b.ReviewCount > 0 {
		text += fmt.Sprintf("\nNombre d'avis: %d", b.ReviewCount)
	}
	return text
}

func richText(content string) []notionapi.RichText {
	return []notionapi.RichText{
		{Text: &notionapi.Text{Content: content}},
	}
}
