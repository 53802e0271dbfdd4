package reports

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"bitbucket.org/bharatisweets/sweets_backend/config"
)

func reportCacheTTL() time.Duration {
	// Env: REPORT_CACHE_TTL_SECONDS (default 120s)
	ttl := 120
	if v := strings.TrimSpace(os.Getenv("REPORT_CACHE_TTL_SECONDS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ttl = n
		}
	}
	return time.Duration(ttl) * time.Second
}

func cacheKey(name string, startDate, endDate time.Time) string {
	return fmt.Sprintf("report:%s:%s:%s", name,
		startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))
}

func cacheGet[T any](key string, dest *T) (bool, error) {
	if !config.ReportCacheEnabled() {
		return false, nil
	}
	return config.GetRedisObject(key, dest)
}

func cacheSet(key string, obj any) {
	if !config.ReportCacheEnabled() {
		return
	}
	// cache failures only cost us a recompute
	_ = config.SetRedisObject(key, obj, reportCacheTTL())
}
