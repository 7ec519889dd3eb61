package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/healinghorizons/dashboard/internal/events"
	"github.com/healinghorizons/dashboard/internal/notify"
)

// UI events go through the service's event bus so HTTP clients and the page
// share one set of handlers.
func registerUIHandlers(api huma.API, svc Service) {
	type themeOutput struct {
		Body struct {
			Theme string `json:"theme" enum:"light,dark"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "get-theme", Method: http.MethodGet, Path: "/api/v1/theme", Summary: "Get the persisted theme", Tags: []string{"UI"}},
		func(ctx context.Context, input *struct{}) (*themeOutput, error) {
			out := &themeOutput{}
			out.Body.Theme = svc.Theme()
			return out, nil
		})

	huma.Register(api, huma.Operation{OperationID: "set-theme", Method: http.MethodPut, Path: "/api/v1/theme", Summary: "Set the theme", Tags: []string{"UI"}},
		func(ctx context.Context, input *struct {
			Body struct {
				Theme string `json:"theme" enum:"light,dark"`
			}
		}) (*themeOutput, error) {
			if err := svc.SetTheme(input.Body.Theme); err != nil {
				return nil, mapErr(err)
			}
			out := &themeOutput{}
			out.Body.Theme = svc.Theme()
			return out, nil
		})

	huma.Register(api, huma.Operation{OperationID: "toggle-theme", Method: http.MethodPost, Path: "/api/v1/theme/toggle", Summary: "Flip between light and dark", Tags: []string{"UI"}},
		func(ctx context.Context, input *struct{}) (*themeOutput, error) {
			if _, err := events.Dispatch(ctx, svc.Bus(), events.ThemeToggled{}); err != nil {
				return nil, mapErr(err)
			}
			out := &themeOutput{}
			out.Body.Theme = svc.Theme()
			return out, nil
		})

	type viewportOutput struct {
		Body struct {
			Width  int `json:"width"`
			Height int `json:"height"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "get-viewport", Method: http.MethodGet, Path: "/api/v1/viewport", Summary: "Current chart viewport", Tags: []string{"UI"}},
		func(ctx context.Context, input *struct{}) (*viewportOutput, error) {
			out := &viewportOutput{}
			out.Body.Width, out.Body.Height = svc.ViewportSize()
			return out, nil
		})

	huma.Register(api, huma.Operation{OperationID: "resize-viewport", Method: http.MethodPost, Path: "/api/v1/viewport", Summary: "Report a viewport resize", Description: "Charts are resized once after bursts of resize events settle.", Tags: []string{"UI"}, DefaultStatus: http.StatusAccepted},
		func(ctx context.Context, input *struct {
			Body struct {
				Width  int `json:"width" minimum:"1"`
				Height int `json:"height" minimum:"1"`
			}
		}) (*viewportOutput, error) {
			if _, err := events.Dispatch(ctx, svc.Bus(), events.Resized{Width: input.Body.Width, Height: input.Body.Height}); err != nil {
				return nil, mapErr(err)
			}
			out := &viewportOutput{}
			out.Body.Width, out.Body.Height = svc.ViewportSize()
			return out, nil
		})

	type formOutput struct {
		Body struct {
			Options  []string `json:"options"`
			Selected string   `json:"selected"`
		}
	}
	formState := func() *formOutput {
		out := &formOutput{}
		out.Body.Options = svc.Form().Options()
		out.Body.Selected = svc.Form().Selected()
		return out
	}
	huma.Register(api, huma.Operation{OperationID: "get-mood-form", Method: http.MethodGet, Path: "/api/v1/mood", Summary: "Mood options and the current selection", Tags: []string{"UI"}},
		func(ctx context.Context, input *struct{}) (*formOutput, error) {
			return formState(), nil
		})

	huma.Register(api, huma.Operation{OperationID: "select-mood", Method: http.MethodPut, Path: "/api/v1/mood", Summary: "Select a mood option", Description: "Unknown moods leave the selection unchanged.", Tags: []string{"UI"}},
		func(ctx context.Context, input *struct {
			Body struct {
				Mood string `json:"mood"`
			}
		}) (*formOutput, error) {
			if _, err := events.Dispatch(ctx, svc.Bus(), events.MoodSelected{Mood: input.Body.Mood}); err != nil {
				return nil, mapErr(err)
			}
			return formState(), nil
		})

	type copyOutput struct {
		Body struct {
			Status string `json:"status"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "copy-text", Method: http.MethodPost, Path: "/api/v1/clipboard", Summary: "Copy text to the clipboard", Description: "The outcome is reported as a toast notification.", Tags: []string{"UI"}, DefaultStatus: http.StatusAccepted},
		func(ctx context.Context, input *struct {
			Body struct {
				Text string `json:"text"`
			}
		}) (*copyOutput, error) {
			if _, err := events.Dispatch(ctx, svc.Bus(), events.CopyRequested{Text: input.Body.Text}); err != nil {
				return nil, mapErr(err)
			}
			out := &copyOutput{}
			out.Body.Status = "requested"
			return out, nil
		})
}

func registerNotificationHandlers(api huma.API, hub *notify.Hub) {
	type recentOutput struct {
		Body struct {
			Notifications []notify.Notification `json:"notifications"`
			Loading       bool                  `json:"loading"`
			Clients       int                   `json:"clients"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "recent-notifications", Method: http.MethodGet, Path: "/api/v1/notifications", Summary: "Recent notifications", Description: "Live delivery is available over SSE at /api/v1/notifications/stream and WebSocket at /api/v1/notifications/ws.", Tags: []string{"Notifications"}},
		func(ctx context.Context, input *struct{}) (*recentOutput, error) {
			out := &recentOutput{}
			out.Body.Notifications = hub.Recent()
			if out.Body.Notifications == nil {
				out.Body.Notifications = []notify.Notification{}
			}
			out.Body.Loading = hub.Loading()
			out.Body.Clients = hub.ClientCount()
			return out, nil
		})
}
