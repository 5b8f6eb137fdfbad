package googleDriveApi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"time"

	"github.com/KotFed0t/portfolio_tracker/config"
	"github.com/KotFed0t/portfolio_tracker/utils"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const downloadLinkTemplate = "https://drive.google.com/file/d/%s/view"

type GoogleDriveApi struct {
	srv *drive.Service
	cfg *config.Config
}

func New(ctx context.Context, cfg *config.Config) *GoogleDriveApi {
	a, err := newWithOptions(ctx, cfg, option.WithCredentialsFile(cfg.GoogleDrive.CredentialsFile))
	if err != nil {
		slog.Error("failed on drive.NewService")
		panic(err)
	}
	return a
}

func newWithOptions(ctx context.Context, cfg *config.Config, opts ...option.ClientOption) (*GoogleDriveApi, error) {
	srv, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &GoogleDriveApi{srv: srv, cfg: cfg}, nil
}

// UploadFile stores the report and opens it for reading by link.
func (a *GoogleDriveApi) UploadFile(ctx context.Context, reader io.Reader, filename string) (downloadLink string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "GoogleDriveApi.UploadFile"

	slog.Debug("UploadFile start", slog.String("rqID", rqID), slog.String("op", op), slog.String("filename", filename))

	fileMeta := &drive.File{
		Name:     filename,
		MimeType: mime.TypeByExtension(filepath.Ext(filename)),
	}

	uploadedFile, err := a.srv.Files.
		Create(fileMeta).
		Media(reader). // чанки по 16МБ, сетевые ошибки ретраятся библиотекой
		Context(ctx).
		Do()
	if err != nil {
		slog.Error("failed on uploading file to google drive", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return "", err
	}

	perm := &drive.Permission{
		Type: "anyone",
		Role: "reader",
	}

	_, err = a.srv.Permissions.Create(uploadedFile.Id, perm).Context(ctx).Do()
	if err != nil {
		slog.Error("failed on creating permission to uploaded file in google drive", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return "", err
	}

	slog.Debug("UploadFile completed", slog.String("rqID", rqID), slog.String("op", op), slog.String("fileID", uploadedFile.Id))

	return fmt.Sprintf(downloadLinkTemplate, uploadedFile.Id), nil
}

// DeleteOldFiles removes reports older than GoogleDrive.FileTTL. A file that fails to delete is skipped.
func (a *GoogleDriveApi) DeleteOldFiles(ctx context.Context) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "GoogleDriveApi.DeleteOldFiles"

	slog.Debug("DeleteOldFiles start", slog.String("rqID", rqID), slog.String("op", op))

	deadline := time.Now().Add(-a.cfg.GoogleDrive.FileTTL)
	query := fmt.Sprintf("createdTime < '%s' and trashed = false", deadline.UTC().Format(time.RFC3339))

	var expired []*drive.File
	err := a.srv.Files.List().
		Q(query).
		Fields("nextPageToken, files(id, name, createdTime)").
		Pages(ctx, func(page *drive.FileList) error {
			expired = append(expired, page.Files...)
			return nil
		})
	if err != nil {
		slog.Error("failed on getting files", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	deletedFiles := 0
	for _, f := range expired {
		err = a.srv.Files.Delete(f.Id).Context(ctx).Do()
		if err != nil {
			slog.Error(
				"failed delete file",
				slog.String("rqID", rqID),
				slog.String("op", op),
				slog.String("err", err.Error()),
				slog.String("fileID", f.Id),
				slog.String("name", f.Name),
			)
			continue
		}
		deletedFiles++
	}

	err = a.srv.Files.EmptyTrash().Context(ctx).Do()
	if err != nil {
		slog.Error("failed empty trash", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	slog.Info("delete old files done", slog.String("rqID", rqID), slog.Int("expiredFiles", len(expired)), slog.Int("deletedFiles", deletedFiles))

	return nil
}
