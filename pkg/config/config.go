package config

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strconv"
)

func New() (Config, error) {
	privateKey, err := requireEnv("PRIVATE_KEY")
	if err != nil {
		return Config{}, err
	}
	key, err := parsePrivateKey(privateKey)
	if err != nil {
		return Config{}, err
	}

	basePath, err := requireEnv("BASE_PATH")
	if err != nil {
		return Config{}, err
	}
	uiURL, err := requireEnv("UI_URL")
	if err != nil {
		return Config{}, err
	}

	refreshTokenSecretKey, err := requireEnv("REFRESH_TOKEN_SECRET_KEY")
	if err != nil {
		return Config{}, err
	}
	accessTokenExpirationSeconds, err := requireEnvAsInt("ACCESS_TOKEN_EXPIRATION_IN_SECONDS")
	if err != nil {
		return Config{}, err
	}
	refreshTokenExpirationSeconds, err := requireEnvAsInt("REFRESH_TOKEN_EXPIRATION_IN_SECONDS")
	if err != nil {
		return Config{}, err
	}

	postgresql, err := newPostgresql()
	if err != nil {
		return Config{}, err
	}
	redis, err := newRedis()
	if err != nil {
		return Config{}, err
	}
	smtp, err := newSMTP()
	if err != nil {
		return Config{}, err
	}
	s3, err := newS3()
	if err != nil {
		return Config{}, err
	}

	return Config{
		BasePath: basePath,
		UIURL:    uiURL,
		Authentication: Authentication{
			PrivateKey:                    key,
			RefreshTokenSecretKey:         refreshTokenSecretKey,
			AccessTokenExpirationSeconds:  accessTokenExpirationSeconds,
			RefreshTokenExpirationSeconds: refreshTokenExpirationSeconds,
		},
		Postgresql: postgresql,
		Redis:      redis,
		SMTP:       smtp,
		S3:         s3,
	}, nil
}

type Config struct {
	BasePath       string
	UIURL          string
	Authentication Authentication
	Postgresql     Postgresql
	Redis          Redis
	SMTP           SMTP
	S3             S3
}

type Authentication struct {
	PrivateKey                    *rsa.PrivateKey
	RefreshTokenSecretKey         string
	AccessTokenExpirationSeconds  int
	RefreshTokenExpirationSeconds int
}

type Postgresql struct {
	Host         string
	Port         int
	Username     string
	Password     string
	DatabaseName string
}

func newPostgresql() (Postgresql, error) {
	host, err := requireEnv("DATABASE_HOST")
	if err != nil {
		return Postgresql{}, err
	}
	port, err := requireEnvAsInt("DATABASE_PORT")
	if err != nil {
		return Postgresql{}, err
	}
	username, err := requireEnv("DATABASE_USERNAME")
	if err != nil {
		return Postgresql{}, err
	}
	password, err := requireEnv("DATABASE_PASSWORD")
	if err != nil {
		return Postgresql{}, err
	}
	name, err := requireEnv("DATABASE_NAME")
	if err != nil {
		return Postgresql{}, err
	}

	return Postgresql{
		Host:         host,
		Port:         port,
		Username:     username,
		Password:     password,
		DatabaseName: name,
	}, nil
}

type Redis struct {
	Host string
	Port int
}

func newRedis() (Redis, error) {
	host, err := requireEnv("REDIS_HOST")
	if err != nil {
		return Redis{}, err
	}
	port, err := requireEnvAsInt("REDIS_PORT")
	if err != nil {
		return Redis{}, err
	}

	return Redis{Host: host, Port: port}, nil
}

type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
}

func newSMTP() (SMTP, error) {
	host, err := requireEnv("SMTP_HOST")
	if err != nil {
		return SMTP{}, err
	}
	port, err := requireEnvAsInt("SMTP_PORT")
	if err != nil {
		return SMTP{}, err
	}
	username, err := requireEnv("SMTP_USERNAME")
	if err != nil {
		return SMTP{}, err
	}
	password, err := requireEnv("SMTP_PASSWORD")
	if err != nil {
		return SMTP{}, err
	}

	return SMTP{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
	}, nil
}

type S3 struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func newS3() (S3, error) {
	endpoint, err := requireEnv("S3_ENDPOINT")
	if err != nil {
		return S3{}, err
	}
	accessKey, err := requireEnv("S3_ACCESS_KEY")
	if err != nil {
		return S3{}, err
	}
	secretKey, err := requireEnv("S3_SECRET_KEY")
	if err != nil {
		return S3{}, err
	}
	bucket, err := requireEnv("S3_BUCKET")
	if err != nil {
		return S3{}, err
	}
	useSSL := os.Getenv("S3_USE_SSL") == "true"

	return S3{
		Endpoint:  endpoint,
		AccessKey: accessKey,
		SecretKey: secretKey,
		Bucket:    bucket,
		UseSSL:    useSSL,
	}, nil
}

func parsePrivateKey(key string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(key))
	if block == nil {
		return nil, errors.New("failed to decode PEM block containing private key")
	}

	privateKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		parsedKey, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse private key: %v", err)
		}
		rsaKey, ok := parsedKey.(*rsa.PrivateKey)
		if !ok {
			return nil, errors.New("private key is not an RSA key")
		}
		return rsaKey, nil
	}

	return privateKey, nil
}

func requireEnv(key string) (string, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return "", fmt.Errorf("can't find environment variable: %s", key)
	}
	return value, nil
}

func requireEnvAsInt(key string) (int, error) {
	valueStr, err := requireEnv(key)
	if err != nil {
		return 0, err
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("can't parse %s as integer: %v", key, err)
	}
	return value, nil
}
