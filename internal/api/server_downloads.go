package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/healinghorizons/dashboard/internal/download"
)

func registerDownloadHandlers(api huma.API, svc Service) {
	type listOutput struct {
		Body struct {
			Downloads []download.Meta `json:"downloads"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "list-downloads", Method: http.MethodGet, Path: "/api/v1/downloads", Summary: "List delivered files", Tags: []string{"Downloads"}},
		func(ctx context.Context, input *struct{}) (*listOutput, error) {
			metas, err := svc.ListDownloads()
			if err != nil {
				return nil, mapErr(err)
			}
			out := &listOutput{}
			out.Body.Downloads = metas
			if out.Body.Downloads == nil {
				out.Body.Downloads = []download.Meta{}
			}
			return out, nil
		})

	type fileOutput struct {
		ContentType        string `header:"Content-Type"`
		ContentDisposition string `header:"Content-Disposition"`
		Body               []byte
	}
	huma.Register(api, huma.Operation{OperationID: "get-download", Method: http.MethodGet, Path: "/api/v1/downloads/{id}", Summary: "Fetch a delivered file", Tags: []string{"Downloads"}},
		func(ctx context.Context, input *struct {
			ID string `path:"id"`
		}) (*fileOutput, error) {
			data, meta, err := svc.ReadDownload(input.ID)
			if err != nil {
				return nil, mapErr(err)
			}
			return &fileOutput{
				ContentType:        meta.ContentType,
				ContentDisposition: `attachment; filename="` + meta.Filename + `"`,
				Body:               data,
			}, nil
		})

	type deleteOutput struct {
		Body struct {
			Status string `json:"status"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "delete-download", Method: http.MethodDelete, Path: "/api/v1/downloads/{id}", Summary: "Delete a delivered file", Tags: []string{"Downloads"}},
		func(ctx context.Context, input *struct {
			ID string `path:"id"`
		}) (*deleteOutput, error) {
			if err := svc.DeleteDownload(input.ID); err != nil {
				return nil, mapErr(err)
			}
			out := &deleteOutput{}
			out.Body.Status = "deleted"
			return out, nil
		})
}
