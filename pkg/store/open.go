package store

import (
	"context"
	"net/url"
	"strings"

	"github.com/matzehuels/tilecascade/pkg/errors"
)

// Supported URI schemes.
const (
	SchemeMemory   = "mem"
	SchemeNull     = "null"
	SchemeFile     = "file"
	SchemeRedis    = "redis"
	SchemeRedisTLS = "rediss"
	SchemeMongo    = "mongodb"
	SchemeMongoSRV = "mongodb+srv"
)

// Open creates the store described by uri. A uri without a scheme is a
// file system path. See the package documentation for the accepted forms.
func Open(ctx context.Context, uri string) (TileStore, error) {
	if uri == "" {
		return nil, errors.New(errors.ErrCodeInvalidURI, "store URI cannot be empty")
	}
	if !strings.Contains(uri, "://") {
		return openFile(uri)
	}

	u, err := url.Parse(uri)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidURI, err, "parse store URI")
	}

	switch u.Scheme {
	case SchemeMemory:
		return NewMemory(), nil
	case SchemeNull:
		return NewBlobStore(NewNullBackend(), nil), nil
	case SchemeFile:
		return openFile(u.Host + u.Path)
	case SchemeRedis, SchemeRedisTLS:
		return openRedis(ctx, u)
	case SchemeMongo, SchemeMongoSRV:
		return openMongo(ctx, u)
	}
	return nil, errors.New(errors.ErrCodeInvalidURI, "unsupported store scheme %q", u.Scheme)
}

func openFile(dir string) (TileStore, error) {
	b, err := NewFileBackend(dir)
	if err != nil {
		return nil, err
	}
	return NewBlobStore(b, nil), nil
}

func openRedis(ctx context.Context, u *url.URL) (TileStore, error) {
	keyer, err := keyerFromQuery(u)
	if err != nil {
		return nil, err
	}
	b, err := DialRedis(ctx, u.String())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreOpen, err, "connect to redis at %s", u.Host)
	}
	return NewBlobStore(b, keyer), nil
}

func openMongo(ctx context.Context, u *url.URL) (TileStore, error) {
	keyer, err := keyerFromQuery(u)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	collection := q.Get("collection")
	q.Del("collection")
	u.RawQuery = q.Encode()

	database := strings.TrimPrefix(u.Path, "/")
	b, err := DialMongo(ctx, u.String(), database, collection)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreOpen, err, "connect to mongodb at %s", u.Host)
	}
	return NewBlobStore(b, keyer), nil
}

// keyerFromQuery consumes the "prefix" query parameter, which drivers
// would otherwise reject as an unknown option.
func keyerFromQuery(u *url.URL) (Keyer, error) {
	q := u.Query()
	prefix := q.Get("prefix")
	q.Del("prefix")
	u.RawQuery = q.Encode()

	if err := errors.ValidateKeyPrefix(prefix); err != nil {
		return nil, err
	}
	if prefix == "" {
		return NewDefaultKeyer(), nil
	}
	return NewScopedKeyer(nil, prefix), nil
}

// Scheme returns the scheme Open would dispatch uri on.
func Scheme(uri string) string {
	scheme, _, ok := strings.Cut(uri, "://")
	if !ok {
		return SchemeFile
	}
	return scheme
}
