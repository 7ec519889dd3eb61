package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/healinghorizons/dashboard/internal/dashboard"
	"github.com/healinghorizons/dashboard/internal/journal"
)

func registerJournalHandlers(api huma.API, svc Service) {
	type entriesOutput struct {
		Body struct {
			Entries []journal.Entry `json:"entries"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "list-entries", Method: http.MethodGet, Path: "/api/v1/journal/entries", Summary: "List journal entries", Tags: []string{"Journal"}},
		func(ctx context.Context, input *struct{}) (*entriesOutput, error) {
			entries, err := svc.ListEntries(ctx)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &entriesOutput{}
			out.Body.Entries = entries
			if out.Body.Entries == nil {
				out.Body.Entries = []journal.Entry{}
			}
			return out, nil
		})

	type entryOutput struct {
		Body journal.Entry
	}
	huma.Register(api, huma.Operation{OperationID: "create-entry", Method: http.MethodPost, Path: "/api/v1/journal/entries", Summary: "Save a journal entry", Description: "Stores the entry and refreshes the mood chart with the latest scores.", Tags: []string{"Journal"}, DefaultStatus: http.StatusCreated},
		func(ctx context.Context, input *struct {
			Body struct {
				Content string   `json:"content" doc:"Entry text"`
				Mood    string   `json:"mood,omitempty" doc:"Mood option; defaults to neutral"`
				Tags    []string `json:"tags,omitempty"`
			}
		}) (*entryOutput, error) {
			entry, err := svc.SaveEntry(ctx, input.Body.Content, input.Body.Mood, input.Body.Tags)
			if err != nil {
				return nil, mapErr(err)
			}
			return &entryOutput{Body: entry}, nil
		})

	type deleteOutput struct {
		Body struct {
			Status string `json:"status"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "delete-entry", Method: http.MethodDelete, Path: "/api/v1/journal/entries/{id}", Summary: "Delete a journal entry", Tags: []string{"Journal"}},
		func(ctx context.Context, input *struct {
			ID string `path:"id"`
		}) (*deleteOutput, error) {
			if err := svc.DeleteEntry(input.ID); err != nil {
				return nil, mapErr(err)
			}
			out := &deleteOutput{}
			out.Body.Status = "deleted"
			return out, nil
		})

	type statsOutput struct {
		Body journal.Stats
	}
	huma.Register(api, huma.Operation{OperationID: "journal-stats", Method: http.MethodGet, Path: "/api/v1/journal/stats", Summary: "Journal statistics and the daily affirmation", Tags: []string{"Journal"}},
		func(ctx context.Context, input *struct{}) (*statsOutput, error) {
			stats, err := svc.Stats(ctx)
			if err != nil {
				return nil, mapErr(err)
			}
			return &statsOutput{Body: stats}, nil
		})

	type exportOutput struct {
		Body dashboard.ExportResult
	}
	huma.Register(api, huma.Operation{OperationID: "export-journal", Method: http.MethodPost, Path: "/api/v1/journal/export", Summary: "Export the journal as JSON", Description: "Delivers healing-horizons-journal-<date>.json to the download directory. Returns 409 when there is nothing to export.", Tags: []string{"Journal"}},
		func(ctx context.Context, input *struct{}) (*exportOutput, error) {
			res, err := svc.ExportJournal(ctx)
			if err != nil {
				return nil, mapErr(err)
			}
			return &exportOutput{Body: res}, nil
		})
}

func registerAnalysisHandlers(api huma.API, svc Service) {
	type analyzeOutput struct {
		Body dashboard.AnalysisOutcome
	}
	huma.Register(api, huma.Operation{OperationID: "analyze-entry", Method: http.MethodPost, Path: "/api/v1/journal/analyze", Summary: "Analyze a journal draft", Description: "Drafts shorter than five characters are skipped with a prompt to write more.", Tags: []string{"Journal"}},
		func(ctx context.Context, input *struct {
			Body struct {
				Content string `json:"content" doc:"Draft text"`
			}
		}) (*analyzeOutput, error) {
			res, err := svc.AnalyzeEntry(ctx, input.Body.Content)
			if err != nil {
				return nil, mapErr(err)
			}
			return &analyzeOutput{Body: res}, nil
		})
}
