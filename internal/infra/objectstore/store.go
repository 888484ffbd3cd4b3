package objectstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/jchntrl/power-point-assistant/internal/core/pipeline"
)

// DefaultURLExpiry は署名付きURLの有効期限
const DefaultURLExpiry = 24 * time.Hour

const defaultRegion = "us-east-1"

// Config はS3互換ストレージの接続設定
type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	URLExpiry time.Duration
}

// Store は生成物を S3 互換ストレージへアップロードする
type Store struct {
	client    *minio.Client
	bucket    string
	region    string
	urlExpiry time.Duration
	logger    *slog.Logger

	initOnce sync.Once
	initErr  error
}

// コンパイル時の型チェック
var _ pipeline.ArtifactStore = (*Store)(nil)

// New は新しい Store を作成します
func New(cfg Config, logger *slog.Logger) (*Store, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, errors.New("storage endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, errors.New("storage access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = defaultRegion
	}
	expiry := cfg.URLExpiry
	if expiry <= 0 {
		expiry = DefaultURLExpiry
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init storage client: %w", err)
	}

	return &Store{
		client:    client,
		bucket:    bucket,
		region:    region,
		urlExpiry: expiry,
		logger:    logger,
	}, nil
}

// Bucket はアップロード先のバケット名を返す
func (s *Store) Bucket() string {
	return s.bucket
}

func (s *Store) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.logger.Info("creating bucket", "bucket", s.bucket, "region", s.region)
		s.initErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region})
	})
	return s.initErr
}

// Upload はローカルファイルをアップロードし、署名付きの取得URLを返す
func (s *Store) Upload(ctx context.Context, localPath, key string) (string, error) {
	objectKey, err := NormalizeKey(key)
	if err != nil {
		return "", err
	}
	if err := s.ensureBucket(ctx); err != nil {
		return "", fmt.Errorf("failed to ensure bucket: %w", err)
	}

	info, err := s.client.FPutObject(ctx, s.bucket, objectKey, localPath, minio.PutObjectOptions{
		ContentType: ContentType(localPath),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", localPath, err)
	}

	u, err := s.client.PresignedGetObject(ctx, s.bucket, objectKey, s.urlExpiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", objectKey, err)
	}

	s.logger.Info("artifact uploaded",
		"bucket", s.bucket,
		"key", objectKey,
		"size", info.Size,
	)
	return u.String(), nil
}

// NormalizeKey はオブジェクトキーを正規化する
// 先頭のスラッシュや ".." を含むキーは受け付けない
func NormalizeKey(key string) (string, error) {
	key = strings.TrimSpace(strings.ReplaceAll(key, "\\", "/"))
	key = strings.TrimLeft(key, "/")
	if key == "" {
		return "", errors.New("object key is required")
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == ".." {
			return "", fmt.Errorf("invalid object key: %s", key)
		}
	}
	cleaned := path.Clean(key)
	if cleaned == "." {
		return "", errors.New("object key is required")
	}
	return cleaned, nil
}

// ContentType は拡張子からContent-Typeを決める
func ContentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pptx":
		return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
