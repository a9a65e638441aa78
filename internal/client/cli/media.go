package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/osp/internal/client/models"
	"github.com/dmitrijs2005/osp/internal/client/services"
	"github.com/dmitrijs2005/osp/internal/client/session"
)

// OpenMedia loads a media item with its comments and shows it. Each of the
// two loads can be retried on its own.
func (a *App) OpenMedia(ctx context.Context, id string) error {
	var commentsErr error
	err := a.withRetry(ctx, "", func() error {
		view, err := a.mediaService.LoadMediaView(ctx, id)
		if view == nil {
			return err
		}
		a.setView(view)
		commentsErr = err
		return nil
	})
	if err != nil {
		return err
	}

	a.navigate(session.RouteMedia)
	view := a.currentView()
	printMedia(a, view.Media)

	if commentsErr != nil {
		first := true
		err = a.withRetry(ctx, "", func() error {
			if first {
				first = false
				return commentsErr
			}
			cs, err := a.mediaService.ListComments(ctx, id)
			if err != nil {
				return err
			}
			view.Comments = cs
			return nil
		})
		if err != nil {
			return err
		}
	}

	printComments(a, view.Comments)
	return nil
}

// Comment posts text on the open media item and shows the updated list.
func (a *App) Comment(ctx context.Context, text string) error {
	view := a.currentView()
	if view == nil || view.Media == nil {
		fmt.Fprintln(a.out, "Open a media item first: media <id>")
		return errors.New("no media open")
	}

	return a.withRetry(ctx, "", func() error {
		_, err := a.mediaService.AddComment(ctx, view, text)
		if errors.Is(err, services.ErrEmptyComment) || errors.Is(err, services.ErrNotSignedIn) {
			return final(err)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Comment posted.")
		printComments(a, view.Comments)
		return nil
	})
}

func printMedia(a *App, m *models.Media) {
	fmt.Fprintf(a.out, "%s\n", m.Title)
	if m.Description != "" {
		fmt.Fprintf(a.out, "%s\n", m.Description)
	}
	if m.ThumbnailURL != "" {
		fmt.Fprintf(a.out, "Thumbnail: %s\n", m.ThumbnailURL)
	}
	if m.Location != "" {
		fmt.Fprintf(a.out, "Location: %s\n", m.Location)
	}
	if m.Coordinates != nil {
		fmt.Fprintf(a.out, "Coordinates: %.5f, %.5f\n", m.Coordinates.Latitude, m.Coordinates.Longitude)
	}
	if !m.CreatedAt.IsZero() {
		fmt.Fprintf(a.out, "Created: %s\n", m.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
}

func printComments(a *App, comments []models.Comment) {
	if len(comments) == 0 {
		fmt.Fprintln(a.out, "No comments yet.")
		return
	}
	fmt.Fprintf(a.out, "Comments (%d):\n", len(comments))
	for _, c := range comments {
		fmt.Fprintf(a.out, "  [%s] %s: %s\n", c.CreatedAt.Local().Format("2006-01-02 15:04"), c.UserID, c.Text)
	}
}
