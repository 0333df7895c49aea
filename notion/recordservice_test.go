package notion_test

import (
	"context"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tlegrand/mapscan"
	"github.com/tlegrand/mapscan/notion"
)

// fakeClient is a function-field fake for the notion.Client interface.
type fakeClient struct {
	QueryDatabaseFn func(ctx context.Context, dbID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error)
	CreatePageFn    func(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error)
	UpdatePageFn    func(ctx context.Context, pageID string, req *notionapi.PageUpdateRequest) (*notionapi.Page, error)
}

func (c *fakeClient) QueryDatabase(ctx context.Context, dbID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	return c.QueryDatabaseFn(ctx, dbID, req)
}

func (c *fakeClient) CreatePage(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error) {
	return c.CreatePageFn(ctx, req)
}

func (c *fakeClient) UpdatePage(ctx context.Context, pageID string, req *notionapi.PageUpdateRequest) (*notionapi.Page, error) {
	return c.UpdatePageFn(ctx, pageID, req)
}

var _ notion.Client = (*fakeClient)(nil)

func TestRecordService_RecordExists(t *testing.T) {
	t.Parallel()

	t.Run("queries by exact title match", func(t *testing.T) {
		t.Parallel()

		var gotDB string
		var gotReq *notionapi.DatabaseQueryRequest
		client := &fakeClient{
			QueryDatabaseFn: func(_ context.Context, dbID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
				gotDB = dbID
				gotReq = req
				return &notionapi.DatabaseQueryResponse{
					Results: []notionapi.Page{{ID: "page-1"}},
				}, nil
			},
		}

		svc := notion.NewRecordService(client, "db-123")
		exists, err := svc.RecordExists(context.Background(), "Boulangerie Martin")

		require.NoError(t, err)
		assert.True(t, exists)
		assert.Equal(t, "db-123", gotDB)

		pf, ok := gotReq.Filter.(notionapi.PropertyFilter)
		require.True(t, ok)
		assert.Equal(t, "Nom", pf.Property)
		require.NotNil(t, pf.RichText)
		assert.Equal(t, "Boulangerie Martin", pf.RichText.Equals)
	})

	t.Run("reports false on empty result", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{
			QueryDatabaseFn: func(_ context.Context, _ string, _ *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
				return &notionapi.DatabaseQueryResponse{}, nil
			},
		}

		svc := notion.NewRecordService(client, "db-123")
		exists, err := svc.RecordExists(context.Background(), "Salon Durand")

		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("propagates query errors", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{
			QueryDatabaseFn: func(_ context.Context, _ string, _ *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
				return nil, assert.AnError
			},
		}

		svc := notion.NewRecordService(client, "db-123")
		_, err := svc.RecordExists(context.Background(), "Salon Durand")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate check")
	})
}

func TestRecordService_CreateRecord(t *testing.T) {
	t.Parallel()

	rating := 4.5
	full := &mapscan.Business{
		Name:        "Boulangerie Martin",
		Rating:      &rating,
		ReviewCount: 128,
		Category:    "Boulangerie",
		Address:     "12 Rue de la Paix, 75002 Paris",
		City:        "Paris",
		Phone:       "01 42 60 00 00",
		Website:     "https://boulangerie-martin.fr",
		OpenStatus:  "Fermé",
	}

	t.Run("maps business onto database properties", func(t *testing.T) {
		t.Parallel()

		var gotReq *notionapi.PageCreateRequest
		client := &fakeClient{
			CreatePageFn: func(_ context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error) {
				gotReq = req
				return &notionapi.Page{ID: "new-page"}, nil
			},
		}

		svc := notion.NewRecordService(client, "db-123")
		require.NoError(t, svc.CreateRecord(context.Background(), full))

		assert.Equal(t, notionapi.DatabaseID("db-123"), gotReq.Parent.DatabaseID)

		title, ok := gotReq.Properties["Nom"].(notionapi.TitleProperty)
		require.True(t, ok)
		require.Len(t, title.Title, 1)
		assert.Equal(t, "Boulangerie Martin", title.Title[0].Text.Content)

		phone, ok := gotReq.Properties["Téléphone"].(notionapi.PhoneNumberProperty)
		require.True(t, ok)
		assert.Equal(t, "01 42 60 00 00", phone.PhoneNumber)

		website, ok := gotReq.Properties["Site Web"].(notionapi.URLProperty)
		require.True(t, ok)
		assert.Equal(t, "https://boulangerie-martin.fr", website.URL)

		status, ok := gotReq.Properties["Statut"].(notionapi.SelectProperty)
		require.True(t, ok)
		assert.Equal(t, "À contacter", status.Select.Name)

		category, ok := gotReq.Properties["Type d'entreprise"].(notionapi.SelectProperty)
		require.True(t, ok)
		assert.Equal(t, "Boulangerie", category.Select.Name)

		comments, ok := gotReq.Properties["Commentaires"].(notionapi.RichTextProperty)
		require.True(t, ok)
		require.Len(t, comments.RichText, 1)
		text := comments.RichText[0].Text.Content
		assert.Contains(t, text, "Adresse: 12 Rue de la Paix, 75002 Paris")
		assert.Contains(t, text, "Statut ouverture: Fermé")
		assert.Contains(t, text, "Note: 4.5/5")
		assert.Contains(t, text, "Nombre d'avis: 128")
	})

	t.Run("omits placeholder phone and website", func(t *testing.T) {
		t.Parallel()

		var gotReq *notionapi.PageCreateRequest
		client := &fakeClient{
			CreatePageFn: func(_ context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error) {
				gotReq = req
				return &notionapi.Page{}, nil
			},
		}

		b := &mapscan.Business{Name: "Salon Durand"}
		b.ApplyDefaults(mapscan.Overrides{})

		svc := notion.NewRecordService(client, "db-123")
		require.NoError(t, svc.CreateRecord(context.Background(), b))

		assert.NotContains(t, gotReq.Properties, "Téléphone")
		assert.NotContains(t, gotReq.Properties, "Site Web")
	})

	t.Run("rejects invalid business before calling the API", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{
			CreatePageFn: func(_ context.Context, _ *notionapi.PageCreateRequest) (*notionapi.Page, error) {
				t.Fatal("CreatePage should not be called")
				return nil, nil
			},
		}

		svc := notion.NewRecordService(client, "db-123")
		err := svc.CreateRecord(context.Background(), &mapscan.Business{})

		assert.Equal(t, mapscan.EINVALID, mapscan.ErrorCode(err))
	})

	t.Run("wraps create errors with the record name", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{
			CreatePageFn: func(_ context.Context, _ *notionapi.PageCreateRequest) (*notionapi.Page, error) {
				return nil, assert.AnError
			},
		}

		svc := notion.NewRecordService(client, "db-123")
		err := svc.CreateRecord(context.Background(), full)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Boulangerie Martin")
	})
}

func TestRecordService_UpdateRecordStatus(t *testing.T) {
	t.Parallel()

	t.Run("updates the status select on the matching page", func(t *testing.T) {
		t.Parallel()

		var gotPageID string
		var gotReq *notionapi.PageUpdateRequest
		client := &fakeClient{
			QueryDatabaseFn: func(_ context.Context, _ string, _ *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
				return &notionapi.DatabaseQueryResponse{
					Results: []notionapi.Page{{ID: "page-1"}},
				}, nil
			},
			UpdatePageFn: func(_ context.Context, pageID string, req *notionapi.PageUpdateRequest) (*notionapi.Page, error) {
				gotPageID = pageID
				gotReq = req
				return &notionapi.Page{ID: "page-1"}, nil
			},
		}

		svc := notion.NewRecordService(client, "db-123")
		err := svc.UpdateRecordStatus(context.Background(), "Boulangerie Martin", "Contacté")

		require.NoError(t, err)
		assert.Equal(t, "page-1", gotPageID)

		status, ok := gotReq.Properties["Statut"].(notionapi.SelectProperty)
		require.True(t, ok)
		assert.Equal(t, "Contacté", status.Select.Name)
	})

	t.Run("returns ENOTFOUND for an unknown name", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{
			QueryDatabaseFn: func(_ context.Context, _ string, _ *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
				return &notionapi.DatabaseQueryResponse{}, nil
			},
			UpdatePageFn: func(_ context.Context, _ string, _ *notionapi.PageUpdateRequest) (*notionapi.Page, error) {
				t.Fatal("UpdatePage should not be called")
				return nil, nil
			},
		}

		svc := notion.NewRecordService(client, "db-123")
		err := svc.UpdateRecordStatus(context.Background(), "Salon Durand", "Contacté")

		assert.Equal(t, mapscan.ENOTFOUND, mapscan.ErrorCode(err))
	})

	t.Run("wraps update errors with the record name", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{
			QueryDatabaseFn: func(_ context.Context, _ string, _ *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
				return &notionapi.DatabaseQueryResponse{
					Results: []notionapi.Page{{ID: "page-1"}},
				}, nil
			},
			UpdatePageFn: func(_ context.Context, _ string, _ *notionapi.PageUpdateRequest) (*notionapi.Page, error) {
				return nil, assert.AnError
			},
		}

		svc := notion.NewRecordService(client, "db-123")
		err := svc.UpdateRecordStatus(context.Background(), "Boulangerie Martin", "Contacté")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Boulangerie Martin")
	})
}

func TestRecordService_FindRecordNamesByStatus(t *testing.T) {
	t.Parallel()

	t.Run("queries the status select and returns page titles", func(t *testing.T) {
		t.Parallel()

		var gotReq *notionapi.DatabaseQueryRequest
		client := &fakeClient{
			QueryDatabaseFn: func(_ context.Context, _ string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
				gotReq = req
				return &notionapi.DatabaseQueryResponse{
					Results: []notionapi.Page{
						{
							ID: "page-1",
							Properties: notionapi.Properties{
								"Nom": &notionapi.TitleProperty{
									Title: []notionapi.RichText{{PlainText: "Boulangerie Martin"}},
								},
							},
						},
						{
							ID: "page-2",
							Properties: notionapi.Properties{
								"Nom": notionapi.TitleProperty{
									Title: []notionapi.RichText{{Text: &notionapi.Text{Content: "Salon Durand"}}},
								},
							},
						},
					},
				}, nil
			},
		}

		svc := notion.NewRecordService(client, "db-123")
		names, err := svc.FindRecordNamesByStatus(context.Background(), "À contacter")

		require.NoError(t, err)
		assert.Equal(t, []string{"Boulangerie Martin", "Salon Durand"}, names)

		pf, ok := gotReq.Filter.(notionapi.PropertyFilter)
		require.True(t, ok)
		assert.Equal(t, "Statut", pf.Property)
		require.NotNil(t, pf.Select)
		assert.Equal(t, "À contacter", pf.Select.Equals)
	})

	t.Run("returns no names for an empty status", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{
			QueryDatabaseFn: func(_ context.Context, _ string, _ *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
				return &notionapi.DatabaseQueryResponse{}, nil
			},
		}

		svc := notion.NewRecordService(client, "db-123")
		names, err := svc.FindRecordNamesByStatus(context.Background(), "Refusé")

		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("propagates query errors", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{
			QueryDatabaseFn: func(_ context.Context, _ string, _ *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
				return nil, assert.AnError
			},
		}

		svc := notion.NewRecordService(client, "db-123")
		_, err := svc.FindRecordNamesByStatus(context.Background(), "Refusé")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "status query")
	})
}
