package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/kemurphy3/ignite-fitness-sub004/internal/config"
	"github.com/kemurphy3/ignite-fitness-sub004/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config" // Alias config to avoid clash
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3TemplateSource implements TemplateSource against an S3-compatible bucket
// holding a JSON array of workout templates.
type s3TemplateSource struct {
	client     *s3.Client
	bucketName string
	objectKey  string
}

// NewS3TemplateSource creates a template source reading from the configured
// S3 bucket and object key.
func NewS3TemplateSource(cfg config.S3Config) (TemplateSource, error) {
	// Custom resolver for S3-compatible endpoints (MinIO, DigitalOcean Spaces)
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.Endpoint != "" {
			return aws.Endpoint{
				PartitionID:   "aws",
				URL:           cfg.Endpoint,
				SigningRegion: cfg.Region,
			}, nil
		}
		// Fall back to default AWS endpoint resolution.
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsSDKConfig, err := awsCfg.LoadDefaultConfig(context.TODO(),
		awsCfg.WithRegion(cfg.Region),
		awsCfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		awsCfg.WithEndpointResolverWithOptions(customResolver),
	)
	if err != nil {
		log.Printf("ERROR: Failed to load AWS SDK config for S3: %v", err)
		return nil, err
	}

	// Path-style addressing is required by most S3-compatible services.
	s3Client := s3.NewFromConfig(awsSDKConfig, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	log.Printf("S3 template source initialized for endpoint: %s, bucket: %s, key: %s", cfg.Endpoint, cfg.BucketName, cfg.CatalogKey)

	return &s3TemplateSource{
		client:     s3Client,
		bucketName: cfg.BucketName,
		objectKey:  cfg.CatalogKey,
	}, nil
}

// FetchTemplates downloads the catalog object and decodes it. Templates that
// fail structural validation are skipped with a log line rather than aborting
// the whole import.
func (s *s3TemplateSource) FetchTemplates(ctx context.Context) ([]domain.WorkoutTemplate, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.objectKey),
	})
	if err != nil {
		return nil, fmt.Errorf("fetch catalog object %q: %w", s.objectKey, err)
	}
	defer out.Body.Close()

	var raw []domain.WorkoutTemplate
	if err := json.NewDecoder(out.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode catalog object %q: %w", s.objectKey, err)
	}

	templates := make([]domain.WorkoutTemplate, 0, len(raw))
	for _, t := range raw {
		if err := t.Validate(); err != nil {
			log.Printf("WARN: skipping template %q from catalog import: %v", t.TemplateID, err)
			continue
		}
		templates = append(templates, t)
	}
	return templates, nil
}
