package redis

import (
	"fmt"
	"strings"
)

const (
	// KeyPrefixRendered is the prefix for rendered HTML, keyed by source and converter settings
	KeyPrefixRendered = "postnav:render:"
	// KeyPosts holds the last successfully loaded post list
	KeyPosts = "postnav:posts"
)

// RenderedKey returns the redis key for a rendered document
func RenderedKey(hash string) string {
	return KeyPrefixRendered + hash
}

// PostsKey returns the key of the post list snapshot
func PostsKey() string {
	return KeyPosts
}

// ExtractHash extracts the render hash from a redis key
func ExtractHash(key string) (string, error) {
	if !strings.HasPrefix(key, KeyPrefixRendered) || len(key) == len(KeyPrefixRendered) {
		return "", fmt.Errorf("invalid rendered key: %s", key)
	}
	return key[len(KeyPrefixRendered):], nil
}
