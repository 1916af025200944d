package repository

// CacheRepository memoizes expensive simulation results. Keys encode every
// input that can change the result; values are JSON.
type CacheRepository interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}
