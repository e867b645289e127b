package testutil

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

// ConfigDB is the SONiC CONFIG_DB index.
const ConfigDB = 4

// Tables is the seed format: { "TABLE": { "key": { "field": "value" } } }.
type Tables map[string]map[string]map[string]string

// StartRedis runs an in-process Redis server that is stopped when the test
// ends.
func StartRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	return miniredis.RunT(t)
}

// SeedRedis writes each entry as a hash at "TABLE|key" in the given DB.
func SeedRedis(t *testing.T, addr string, db int, tables Tables) {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	defer client.Close()

	ctx := context.Background()
	for table, entries := range tables {
		for key, fields := range entries {
			redisKey := table + "|" + key
			if len(fields) == 0 {
				// SONiC marks field-less entries with a NULL field
				fields = map[string]string{"NULL": "NULL"}
			}
			args := make([]interface{}, 0, len(fields)*2)
			for k, v := range fields {
				args = append(args, k, v)
			}
			if err := client.HSet(ctx, redisKey, args...).Err(); err != nil {
				t.Fatalf("seeding %s: %v", redisKey, err)
			}
		}
	}
}

// SeedRedisFile loads a JSON seed file into the given DB.
func SeedRedisFile(t *testing.T, addr string, db int, seedFile string) {
	t.Helper()

	data, err := os.ReadFile(seedFile)
	if err != nil {
		t.Fatalf("reading seed file %s: %v", seedFile, err)
	}
	var tables Tables
	if err := json.Unmarshal(data, &tables); err != nil {
		t.Fatalf("parsing seed file %s: %v", seedFile, err)
	}
	SeedRedis(t, addr, db, tables)
}

// SeededConfigDB starts Redis and loads testdata/seed/configdb.json into
// CONFIG_DB. It returns the server address.
func SeededConfigDB(t *testing.T) string {
	t.Helper()
	m := StartRedis(t)
	SeedRedisFile(t, m.Addr(), ConfigDB, SeedPath("configdb.json"))
	return m.Addr()
}
