package s3

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const bucketCheckTimeout = 5 * time.Second

// Config подключение к Backblaze B2 (или локальному MinIO) через S3 API
type Config struct {
	Enabled      bool   `envconfig:"ENABLED" default:"false"`
	Host         string `envconfig:"HOST"`   // s3.eu-central-003.backblazeb2.com
	Region       string `envconfig:"REGION"` // eu-central-003
	AccessKey    string `envconfig:"ACCESS_KEY"`
	SecretKey    string `envconfig:"SECRET_KEY"`
	Bucket       string `envconfig:"BUCKET" default:"formations"`
	UseSSL       bool   `envconfig:"USE_SSL" default:"true"`
	MaxObjectMB  int    `envconfig:"MAX_OBJECT_MB" default:"200"`
	CreateBucket bool   `envconfig:"CREATE_BUCKET" default:"false"` // только для локального MinIO
}

func (c *Config) validate() error {
	var errs []error
	if c.Host == "" {
		errs = append(errs, errors.New("S3_HOST is empty"))
	}
	if c.AccessKey == "" || c.SecretKey == "" {
		errs = append(errs, errors.New("S3 credentials are empty"))
	}
	if c.Bucket == "" {
		errs = append(errs, errors.New("S3_BUCKET is empty"))
	}
	return errors.Join(errs...)
}

// MaxObjectBytes лимит размера загружаемого объекта, 0 без ограничения
func (c *Config) MaxObjectBytes() int64 {
	if c.MaxObjectMB <= 0 {
		return 0
	}
	return int64(c.MaxObjectMB) << 20
}

// NewClient создаёт minio клиент и проверяет, что бакет доступен
func (c *Config) NewClient() (*minio.Client, error) {
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid s3 config: %w", err)
	}

	client, err := minio.New(c.Host, &minio.Options{
		Creds:  credentials.NewStaticV4(c.AccessKey, c.SecretKey, ""),
		Secure: c.UseSSL,
		Region: c.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), bucketCheckTimeout)
	defer cancel()

	exists, err := client.BucketExists(ctx, c.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", c.Bucket, err)
	}
	if exists {
		return client, nil
	}
	if !c.CreateBucket {
		return nil, fmt.Errorf("bucket %s does not exist", c.Bucket)
	}
	if err := client.MakeBucket(ctx, c.Bucket, minio.MakeBucketOptions{Region: c.Region}); err != nil {
		return nil, fmt.Errorf("failed to create bucket %s: %w", c.Bucket, err)
	}
	return client, nil
}
