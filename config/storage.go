package config

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds S3 client and bucket info
type S3Config struct {
	Client     *s3.Client
	BucketName string
	Region     string
}

// NewS3Config initializes the S3 client for the configured bucket and region
func NewS3Config(ctx context.Context, cfg *Config) (*S3Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Config{
		Client:     s3.NewFromConfig(awsCfg),
		BucketName: cfg.S3BucketName,
		Region:     cfg.AWSRegion,
	}, nil
}

// ObjectURL returns the public URL of an object in the bucket.
func (s *S3Config) ObjectURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.BucketName, s.Region, key)
}

// ImageKeyPrefix is the key prefix recipe images are stored under.
const ImageKeyPrefix = "recipe-images/"

type bucketPolicy struct {
	Version   string            `json:"Version"`
	Statement []policyStatement `json:"Statement"`
}

type policyStatement struct {
	Sid       string `json:"Sid"`
	Effect    string `json:"Effect"`
	Principal string `json:"Principal"`
	Action    string `json:"Action"`
	Resource  string `json:"Resource"`
}

// ImagePolicy returns the bucket policy that lets anyone read recipe images.
func (s *S3Config) ImagePolicy() (string, error) {
	policy, err := json.Marshal(bucketPolicy{
		Version: "2012-10-17",
		Statement: []policyStatement{{
			Sid:       "PublicReadRecipeImages",
			Effect:    "Allow",
			Principal: "*",
			Action:    "s3:GetObject",
			Resource:  "arn:aws:s3:::" + s.BucketName + "/" + ImageKeyPrefix + "*",
		}},
	})
	if err != nil {
		return "", err
	}
	return string(policy), nil
}

// SetupBucketPolicy applies ImagePolicy to the bucket.
func (s *S3Config) SetupBucketPolicy(ctx context.Context) error {
	policy, err := s.ImagePolicy()
	if err != nil {
		return fmt.Errorf("failed to build bucket policy: %w", err)
	}
	_, err = s.Client.PutBucketPolicy(ctx, &s3.PutBucketPolicyInput{
		Bucket: aws.String(s.BucketName),
		Policy: aws.String(policy),
	})
	if err != nil {
		return fmt.Errorf("failed to apply bucket policy: %w", err)
	}
	return nil
}
