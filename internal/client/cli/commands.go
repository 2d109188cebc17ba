package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophblog/internal/client/client"
	"github.com/dmitrijs2005/gophblog/internal/client/models"
	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/filex"
	"github.com/dmitrijs2005/gophblog/internal/netx"
)

const (
	maxAttachmentSize = 32 << 20
	downloadDir       = "downloads"
)

// getPassword is a test seam for GetPassword.
var getPassword = GetPassword

func (a *App) Register(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.client.Register(ctx, username, email, password); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "User registered successfully, you can log in now")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.client.Login(ctx, username, password)
	if err != nil {
		return err
	}
	a.session = s

	fmt.Fprintf(a.out, "Logged in as %s (%s), session valid until %s\n",
		s.Username, s.Role, s.ExpiresAt.Local().Format("15:04:05"))
	return nil
}

func (a *App) Logout(_ context.Context) error {
	a.client.Logout()
	a.session = nil
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) List(ctx context.Context) error {
	posts, err := a.client.ListPosts(ctx)
	if err != nil {
		return a.handle(err)
	}
	a.printPosts(posts)
	return nil
}

func (a *App) Mine(ctx context.Context) error {
	posts, err := a.client.ListMyPosts(ctx)
	if err != nil {
		return a.handle(err)
	}
	a.printPosts(posts)
	return nil
}

func (a *App) Show(ctx context.Context, id string) error {
	p, err := a.client.GetPost(ctx, id)
	if err != nil {
		return a.handle(err)
	}

	fmt.Fprintf(a.out, "%s\nby %s, %s\n\n%s\n", p.Title, p.AuthorUsername,
		p.CreatedAt.Local().Format("2006-01-02 15:04"), p.Content)
	if p.HasAttachment {
		fmt.Fprintln(a.out, "[has attachment]")
	}
	return nil
}

func (a *App) Create(ctx context.Context) error {
	title, content, err := a.readPost()
	if err != nil {
		return err
	}

	p, err := a.client.CreatePost(ctx, title, content)
	if err != nil {
		return a.handle(err)
	}

	fmt.Fprintf(a.out, "Created post %s\n", p.ID)
	return nil
}

func (a *App) Edit(ctx context.Context, id string) error {
	title, content, err := a.readPost()
	if err != nil {
		return err
	}

	if _, err := a.client.UpdatePost(ctx, id, title, content); err != nil {
		return a.handle(err)
	}

	fmt.Fprintf(a.out, "Updated post %s\n", id)
	return nil
}

func (a *App) Delete(ctx context.Context, id string) error {
	if err := a.client.DeletePost(ctx, id); err != nil {
		return a.handle(err)
	}
	fmt.Fprintf(a.out, "Deleted post %s\n", id)
	return nil
}

func (a *App) Attach(ctx context.Context, id, path string) error {
	data, err := filex.ReadLimited(path, maxAttachmentSize)
	if err != nil {
		return err
	}

	att, err := a.client.AttachmentUploadURL(ctx, id)
	if err != nil {
		return a.handle(err)
	}

	if err := netx.UploadToPresignedURL(ctx, a.transfer, att.URL, data); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Uploaded %d bytes to post %s\n", len(data), id)
	return nil
}

func (a *App) Download(ctx context.Context, id string) error {
	att, err := a.client.AttachmentDownloadURL(ctx, id)
	if err != nil {
		return a.handle(err)
	}

	data, err := netx.DownloadFromPresignedURL(ctx, a.transfer, att.URL)
	if err != nil {
		return err
	}

	dir, err := filex.EnsureSubDir(downloadDir)
	if err != nil {
		return err
	}
	path, err := filex.WriteInDir(dir, id, data)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Saved attachment to %s\n", path)
	return nil
}

func (a *App) readPost() (string, string, error) {
	title, err := GetSimpleText(a.reader, "Enter title", a.out)
	if err != nil {
		return "", "", err
	}
	content, err := GetMultiline(a.reader, "Enter content", a.out)
	if err != nil {
		return "", "", err
	}
	return title, content, nil
}

// handle drops a session the server no longer accepts.
func (a *App) handle(err error) error {
	if errors.Is(err, client.ErrUnauthorized) && a.session != nil {
		a.client.Logout()
		a.session = nil
		return fmt.Errorf("%w; please log in again", err)
	}
	if errors.Is(err, client.ErrNotLoggedIn) {
		return fmt.Errorf("%w; use 'login' first", err)
	}
	return err
}

func (a *App) printPosts(posts []models.Post) {
	if len(posts) == 0 {
		fmt.Fprintln(a.out, "No posts")
		return
	}
	for _, p := range posts {
		marker := ""
		if p.HasAttachment {
			marker = " [att]"
		}
		fmt.Fprintf(a.out, "%s  %-30s  %s%s\n", p.ID, truncate(p.Title, 30), p.AuthorUsername, marker)
	}
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}
