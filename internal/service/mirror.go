package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"docportal/internal/logger"
	"docportal/internal/model"
	"docportal/internal/repository"
	"docportal/internal/storage"
)

const (
	defaultLinkExpiry   = 24 * time.Hour
	defaultMirrorWorker = 4
)

// MirrorOptions select what is mirrored.
type MirrorOptions struct {
	// DocumentIDs restricts the run; empty mirrors every document.
	DocumentIDs []string
	LinkExpiry  time.Duration
	Concurrency int
}

// MirrorResult reports the outcome for one document.
type MirrorResult struct {
	DocumentID string `json:"documentId"`
	Name       string `json:"name"`
	Key        string `json:"key"`
	Size       int64  `json:"size"`
	Skipped    bool   `json:"skipped"`
	URL        string `json:"url,omitempty"`
	Error      string `json:"error,omitempty"`
}

// MirrorService copies document content into object storage.
type MirrorService interface {
	// Mirror copies each selected document to documents/<id>/<name>,
	// skipping objects whose stored size already matches. Per-document
	// failures are reported in the results, not returned.
	Mirror(ctx context.Context, opt MirrorOptions) ([]MirrorResult, error)
}

type mirrorService struct {
	docs  func() repository.DocumentRepository
	store storage.Storage
}

// NewMirrorService constructs a MirrorService.
func NewMirrorService(docs func() repository.DocumentRepository, store storage.Storage) MirrorService {
	return &mirrorService{docs: docs, store: store}
}

// ObjectKey is the storage key a document is mirrored under.
func ObjectKey(doc model.Document) string {
	name := strings.NewReplacer("/", "_", "\\", "_").Replace(doc.Name)
	return path.Join("documents", doc.ID, name)
}

func (s *mirrorService) Mirror(ctx context.Context, opt MirrorOptions) ([]MirrorResult, error) {
	all, err := s.docs().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	docs := selectDocuments(all, opt.DocumentIDs)

	expiry := opt.LinkExpiry
	if expiry <= 0 {
		expiry = defaultLinkExpiry
	}
	workers := opt.Concurrency
	if workers <= 0 {
		workers = defaultMirrorWorker
	}

	results := make([]MirrorResult, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, doc := range docs {
		g.Go(func() error {
			results[i] = s.mirrorOne(gctx, doc, expiry)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func selectDocuments(all []model.Document, ids []string) []model.Document {
	if len(ids) == 0 {
		return all
	}
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make([]model.Document, 0, len(ids))
	for _, d := range all {
		if _, ok := want[d.ID]; ok {
			out = append(out, d)
		}
	}
	return out
}

var tracer = otel.Tracer("docportal/internal/service")

func (s *mirrorService) mirrorOne(ctx context.Context, doc model.Document, expiry time.Duration) (res MirrorResult) {
	key := ObjectKey(doc)
	ctx, span := tracer.Start(ctx, "mirror.document",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("document.id", doc.ID), attribute.String("object.key", key)),
	)
	defer func() {
		span.SetAttributes(attribute.Bool("mirror.skipped", res.Skipped), attribute.Int64("object.size", res.Size))
		if res.Error != "" {
			span.SetStatus(codes.Error, res.Error)
		}
		span.End()
	}()

	res = MirrorResult{DocumentID: doc.ID, Name: doc.Name, Key: key}
	log := logger.Log.With(zap.String("document_id", doc.ID), zap.String("key", key))

	info, err := s.store.Stat(ctx, key)
	switch {
	case err == nil && doc.SizeBytes > 0 && info.Size == doc.SizeBytes:
		res.Skipped = true
		res.Size = info.Size
	case err != nil && !errors.Is(err, storage.ErrNotFound):
		res.Error = err.Error()
		log.Warn("mirror_stat_failed", zap.Error(err))
		return res
	default:
		content, dl, err := s.docs().DownloadContent(ctx, doc.ID)
		if err != nil {
			res.Error = err.Error()
			log.Warn("mirror_download_failed", zap.Error(err))
			return res
		}
		meta := map[string]string{"document-id": doc.ID, "original-filename": doc.Name}
		if dl.FileName != "" {
			meta["original-filename"] = dl.FileName
		}
		put, err := s.store.Put(ctx, key, bytes.NewReader(content), storage.PutObjectOptions{
			Size:        int64(len(content)),
			ContentType: doc.MIMEType,
			Metadata:    meta,
		})
		if err != nil {
			res.Error = err.Error()
			log.Warn("mirror_put_failed", zap.Error(err))
			return res
		}
		res.Size = put.Size
		log.Info("mirror_object_written", zap.Int64("size", put.Size))
	}

	link, err := s.store.PresignGet(ctx, key, expiry)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.URL = link
	return res
}
