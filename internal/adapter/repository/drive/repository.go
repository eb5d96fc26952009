package drive

import (
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/time/rate"
	gdrive "google.golang.org/api/drive/v3"

	"docqa/internal/domain"
	"docqa/internal/port"
)

// Google Workspace MIME types.
const (
	mimeTypeFolder    = "application/vnd.google-apps.folder"
	mimeTypeGoogleDoc = "application/vnd.google-apps.document"
	mimeTypePlainText = "text/plain"
	mimeTypeMarkdown  = "text/markdown"

	exportMimeText = "text/plain"
)

// maxExportSize caps exported/downloaded content at 5MB.
const maxExportSize = 5 * 1024 * 1024

const listPageSize = 100

// filesAPI is the slice of the Drive API the repository needs. The
// indirection keeps folder traversal and fetch policy testable without
// the network.
type filesAPI interface {
	listFolder(ctx context.Context, folderID string) ([]*gdrive.File, error)
	export(ctx context.Context, fileID, mimeType string) (string, error)
	download(ctx context.Context, fileID string) (string, error)
}

type Repository struct {
	api filesAPI
}

var _ port.Repository = (*Repository)(nil)

// NewRepository wraps an authorised Drive service.
func NewRepository(svc *gdrive.Service) *Repository {
	return &Repository{api: &driveAPI{svc: svc, limiter: newLimiter()}}
}

// List walks the folder tree under folderID and returns every eligible
// document. A visited set guards against a malformed store reporting a
// folder as its own descendant; each folder is listed exactly once.
func (r *Repository) List(ctx context.Context, folderID string) ([]domain.DocumentRef, error) {
	if folderID == "" {
		return nil, fmt.Errorf("folder ID is empty")
	}

	var refs []domain.DocumentRef
	visited := map[string]bool{folderID: true}
	pending := []string{folderID}

	for len(pending) > 0 {
		folder := pending[0]
		pending = pending[1:]

		files, err := r.api.listFolder(ctx, folder)
		if err != nil {
			return nil, fmt.Errorf("failed to list folder %s: %w", folder, err)
		}

		for _, f := range files {
			if f.MimeType == mimeTypeFolder {
				if !visited[f.Id] {
					visited[f.Id] = true
					pending = append(pending, f.Id)
				}
				continue
			}

			ct, ok := contentTypeForMime(f.MimeType)
			if !ok {
				continue
			}
			refs = append(refs, domain.DocumentRef{
				ID:          f.Id,
				Name:        f.Name,
				ContentType: ct,
			})
		}
	}

	return refs, nil
}

// Fetch returns the plain-text content of one document. Native docs are
// exported to text; everything else is downloaded as-is. Any provider or
// decode failure yields "" so a single bad document never aborts a build.
func (r *Repository) Fetch(ctx context.Context, ref domain.DocumentRef) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	var content string
	var err error
	if ref.ContentType == domain.ContentNativeDoc {
		content, err = r.api.export(ctx, ref.ID, exportMimeText)
	} else {
		content, err = r.api.download(ctx, ref.ID)
	}
	if err != nil {
		return "", nil
	}
	if !utf8.ValidString(content) {
		return "", nil
	}
	return content, nil
}

func contentTypeForMime(mime string) (domain.ContentType, bool) {
	switch mime {
	case mimeTypeGoogleDoc:
		return domain.ContentNativeDoc, true
	case mimeTypePlainText:
		return domain.ContentPlainText, true
	case mimeTypeMarkdown:
		return domain.ContentMarkdown, true
	default:
		return "", false
	}
}

// driveAPI is the production filesAPI backed by the Drive v3 client, with
// a token-bucket limiter in front of every call.
type driveAPI struct {
	svc     *gdrive.Service
	limiter *rate.Limiter
}

func (a *driveAPI) listFolder(ctx context.Context, folderID string) ([]*gdrive.File, error) {
	var files []*gdrive.File
	pageToken := ""

	for {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		call := a.svc.Files.List().
			Q(fmt.Sprintf("'%s' in parents and trashed = false", folderID)).
			Fields("nextPageToken, files(id, name, mimeType)").
			PageSize(listPageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		res, err := call.Do()
		if err != nil {
			return nil, err
		}

		files = append(files, res.Files...)
		pageToken = res.NextPageToken
		if pageToken == "" {
			return files, nil
		}
	}
}

func (a *driveAPI) export(ctx context.Context, fileID, mimeType string) (string, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := a.svc.Files.Export(fileID, mimeType).Context(ctx).Download()
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	return readCapped(resp.Body)
}

func (a *driveAPI) download(ctx context.Context, fileID string) (string, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := a.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	return readCapped(resp.Body)
}

func readCapped(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxExportSize))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
