package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/healinghorizons/dashboard/internal/dashboard"
)

type chartNameInput struct {
	Name string `path:"name" doc:"Chart name, e.g. mood, progress, recovery, activity, radar"`
}

func registerChartHandlers(api huma.API, svc Service) {
	type listChartsOutput struct {
		Body struct {
			Charts []dashboard.ChartInfo `json:"charts"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "list-charts", Method: http.MethodGet, Path: "/api/v1/charts", Summary: "List mounted charts", Tags: []string{"Charts"}},
		func(ctx context.Context, input *struct{}) (*listChartsOutput, error) {
			out := &listChartsOutput{}
			out.Body.Charts = svc.Charts()
			return out, nil
		})

	type mountOutput struct {
		Body struct {
			Mounted []string `json:"mounted"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "mount-charts", Method: http.MethodPost, Path: "/api/v1/charts/mount", Summary: "Instantiate chart presets", Description: "Mounts every preset whose container is listed. An empty list mounts all presets; presets without a container are skipped.", Tags: []string{"Charts"}},
		func(ctx context.Context, input *struct {
			Body struct {
				Containers []string `json:"containers,omitempty" doc:"Container names present on the page"`
			} `required:"false"`
		}) (*mountOutput, error) {
			mounted, err := svc.MountCharts(input.Body.Containers)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &mountOutput{}
			out.Body.Mounted = mounted
			if out.Body.Mounted == nil {
				out.Body.Mounted = []string{}
			}
			return out, nil
		})

	type chartOutput struct {
		Body dashboard.ChartInfo
	}
	huma.Register(api, huma.Operation{OperationID: "get-chart", Method: http.MethodGet, Path: "/api/v1/charts/{name}", Summary: "Describe a chart", Tags: []string{"Charts"}},
		func(ctx context.Context, input *chartNameInput) (*chartOutput, error) {
			info, err := svc.Chart(input.Name)
			if err != nil {
				return nil, mapErr(err)
			}
			return &chartOutput{Body: info}, nil
		})

	type updateOutput struct {
		Body struct {
			Name    string `json:"name"`
			Updated bool   `json:"updated"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "update-chart", Method: http.MethodPut, Path: "/api/v1/charts/{name}/data", Summary: "Replace a chart's primary series", Description: "Unknown charts are ignored and reported with updated=false.", Tags: []string{"Charts"}},
		func(ctx context.Context, input *struct {
			Name string `path:"name"`
			Body struct {
				Series []float64 `json:"series" doc:"New primary series"`
			}
		}) (*updateOutput, error) {
			found, err := svc.UpdateChart(input.Name, input.Body.Series)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &updateOutput{}
			out.Body.Name = input.Name
			out.Body.Updated = found
			return out, nil
		})

	type imageOutput struct {
		ContentType        string `header:"Content-Type"`
		ContentDisposition string `header:"Content-Disposition"`
		Body               []byte
	}
	huma.Register(api, huma.Operation{OperationID: "render-chart", Method: http.MethodGet, Path: "/api/v1/charts/{name}/image", Summary: "Render a chart image", Tags: []string{"Charts"}},
		func(ctx context.Context, input *struct {
			Name   string `path:"name"`
			Format string `query:"format" default:"png" enum:"png,jpeg,svg"`
		}) (*imageOutput, error) {
			file, err := svc.RenderChart(ctx, input.Name, input.Format)
			if err != nil {
				return nil, mapErr(err)
			}
			return &imageOutput{
				ContentType:        file.ContentType,
				ContentDisposition: `attachment; filename="` + file.Filename + `"`,
				Body:               file.Data,
			}, nil
		})

	type exportOutput struct {
		Body struct {
			Name     string `json:"name"`
			Exported bool   `json:"exported"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "export-chart", Method: http.MethodPost, Path: "/api/v1/charts/{name}/export", Summary: "Export a chart to the download directory", Tags: []string{"Charts"}},
		func(ctx context.Context, input *struct {
			Name string `path:"name"`
			Body struct {
				Format string `json:"format,omitempty" default:"png" enum:"png,jpeg,svg"`
			} `required:"false"`
		}) (*exportOutput, error) {
			found, err := svc.ExportChart(ctx, input.Name, input.Body.Format)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &exportOutput{}
			out.Body.Name = input.Name
			out.Body.Exported = found
			return out, nil
		})

	type destroyOutput struct {
		Body struct {
			Status string `json:"status"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "destroy-charts", Method: http.MethodDelete, Path: "/api/v1/charts", Summary: "Destroy every chart", Tags: []string{"Charts"}},
		func(ctx context.Context, input *struct{}) (*destroyOutput, error) {
			if err := svc.DestroyCharts(); err != nil {
				return nil, mapErr(err)
			}
			out := &destroyOutput{}
			out.Body.Status = "destroyed"
			return out, nil
		})
}

func registerTrendHandlers(api huma.API, svc Service) {
	type trendOutput struct {
		Body struct {
			Labels []string  `json:"labels"`
			Data   []float64 `json:"data"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "generate-trend", Method: http.MethodGet, Path: "/api/v1/trend", Summary: "Generate a synthetic recovery curve", Tags: []string{"Charts"}},
		func(ctx context.Context, input *struct {
			Days       int     `query:"days" default:"30" minimum:"0" maximum:"3650"`
			Volatility float64 `query:"volatility" default:"0.2" minimum:"0"`
		}) (*trendOutput, error) {
			data, labels, err := svc.Trend(input.Days, input.Volatility)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &trendOutput{}
			out.Body.Data = data
			out.Body.Labels = labels
			return out, nil
		})
}
