package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	appConfig "github.com/mansoorceksport/tenantpanel/internal/config"
	"github.com/mansoorceksport/tenantpanel/internal/domain"
)

// S3API is the subset of the S3 client used for assets
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3AssetRepository implements domain.AssetRepository on an S3-compatible bucket
type S3AssetRepository struct {
	client S3API
	bucket string
	prefix string
}

// NewS3AssetRepository creates an asset repository for the configured bucket
func NewS3AssetRepository(ctx context.Context, cfg appConfig.S3Config) (*S3AssetRepository, error) {
	// S3-compatible stores (SeaweedFS, MinIO) accept any static credentials
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("any", "any", "")),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	return NewS3AssetRepositoryWithClient(client, cfg.Bucket, "assets"), nil
}

// NewS3AssetRepositoryWithClient creates an asset repository around an existing client
func NewS3AssetRepositoryWithClient(client S3API, bucket, prefix string) *S3AssetRepository {
	return &S3AssetRepository{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// Get downloads the named asset
func (r *S3AssetRepository) Get(ctx context.Context, name string) (*domain.Asset, error) {
	key := path.Join(r.prefix, path.Clean("/" + name))

	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get asset %s: %w", key, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset %s: %w", key, err)
	}

	return &domain.Asset{
		Name:        name,
		ContentType: aws.ToString(out.ContentType),
		Body:        body,
	}, nil
}
