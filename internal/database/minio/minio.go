package minio

import (
	"context"
	"io"

	"github.com/chngmn/Quizly-server/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

var MinioClient *minio.Client

// InitMinioClient connects to MinIO and makes sure the upload bucket exists.
func InitMinioClient(ctx context.Context, cfg *config.MinIOConfig) error {
	var err error

	MinioClient, err = minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		log.Error().Err(err).Msg("error initializing MinIO client")
		return err
	}

	exists, err := MinioClient.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		log.Error().Err(err).Str("bucket", cfg.BucketName).Msg("error checking bucket")
		return err
	}
	if !exists {
		err = MinioClient.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{Region: cfg.Region})
		if err != nil {
			log.Error().Err(err).Str("bucket", cfg.BucketName).Msg("error creating bucket")
			return err
		}
		log.Info().Str("bucket", cfg.BucketName).Msg("created bucket")
	}

	log.Info().Str("endpoint", cfg.Endpoint).Msg("initialized MinIO client")
	return nil
}

func UploadFile(ctx context.Context, bucketName, objectName string, reader io.Reader, contentType string, size int64) (minio.UploadInfo, error) {
	return MinioClient.PutObject(ctx, bucketName, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
}

func DeleteFile(ctx context.Context, bucketName, objectName string) error {
	return MinioClient.RemoveObject(ctx, bucketName, objectName, minio.RemoveObjectOptions{})
}
