// Package sonic implements the device driver for SONiC switches. Interface
// state is read from CONFIG_DB and configuration is applied with the SONiC
// `config` CLI.
package sonic

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-redis/redis/v8"

	"github.com/newtron-network/vlanconf/pkg/util"
	"github.com/newtron-network/vlanconf/pkg/vlan"
)

// CONFIG_DB table names read by this driver.
const (
	tablePort              = "PORT"
	tableVLANMember        = "VLAN_MEMBER"
	tableInterface         = "INTERFACE"
	tablePortChannel       = "PORTCHANNEL"
	tablePortChannelMember = "PORTCHANNEL_MEMBER"
)

// Unassigned is reported for a port with no VLAN membership and no L3
// interface.
const Unassigned = "unassigned"

// VLANMemberEntry is a VLAN_MEMBER row keyed "Vlan<id>|<port>".
type VLANMemberEntry struct {
	VLAN        string
	Port        string
	TaggingMode string
}

// Snapshot is the subset of CONFIG_DB needed to derive interface VLANs.
type Snapshot struct {
	Ports              []string
	PortChannels       []string
	VLANMembers        []VLANMemberEntry
	RoutedInterfaces   map[string]bool
	PortChannelMembers map[string]string // member port -> PortChannel
}

// ConfigDBClient wraps a Redis client for CONFIG_DB (DB 4).
type ConfigDBClient struct {
	client *redis.Client
}

// NewConfigDBClient creates a CONFIG_DB client for addr.
func NewConfigDBClient(addr string) *ConfigDBClient {
	return &ConfigDBClient{
		client: redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   4, // CONFIG_DB
		}),
	}
}

// Connect tests the connection.
func (c *ConfigDBClient) Connect(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (c *ConfigDBClient) Close() error {
	return c.client.Close()
}

// Snapshot reads the port, VLAN membership, L3 interface and LAG tables.
func (c *ConfigDBClient) Snapshot(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{
		RoutedInterfaces:   map[string]bool{},
		PortChannelMembers: map[string]string{},
	}

	ports, err := c.tableKeys(ctx, tablePort)
	if err != nil {
		return nil, err
	}
	for _, k := range ports {
		snap.Ports = append(snap.Ports, k[0])
	}

	lags, err := c.tableKeys(ctx, tablePortChannel)
	if err != nil {
		return nil, err
	}
	for _, k := range lags {
		snap.PortChannels = append(snap.PortChannels, k[0])
	}

	members, err := c.tableKeys(ctx, tableVLANMember)
	if err != nil {
		return nil, err
	}
	for _, k := range members {
		if len(k) != 2 {
			continue
		}
		mode, err := c.client.HGet(ctx, tableVLANMember+"|"+k[0]+"|"+k[1], "tagging_mode").Result()
		if err != nil && err != redis.Nil {
			return nil, fmt.Errorf("reading %s|%s|%s: %w", tableVLANMember, k[0], k[1], err)
		}
		snap.VLANMembers = append(snap.VLANMembers, VLANMemberEntry{VLAN: k[0], Port: k[1], TaggingMode: mode})
	}

	intfs, err := c.tableKeys(ctx, tableInterface)
	if err != nil {
		return nil, err
	}
	for _, k := range intfs {
		snap.RoutedInterfaces[k[0]] = true
	}

	lagMembers, err := c.tableKeys(ctx, tablePortChannelMember)
	if err != nil {
		return nil, err
	}
	for _, k := range lagMembers {
		if len(k) == 2 {
			snap.PortChannelMembers[k[1]] = k[0]
		}
	}

	return snap, nil
}

// tableKeys returns the keys of table split on "|", without the table name.
func (c *ConfigDBClient) tableKeys(ctx context.Context, table string) ([][]string, error) {
	keys, err := scanKeys(ctx, c.client, table+"|*", 100)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", table, err)
	}
	sort.Strings(keys)
	out := make([][]string, 0, len(keys))
	for _, k := range keys {
		parts := strings.Split(k, "|")
		out = append(out, parts[1:])
	}
	return out, nil
}

// scanKeys uses SCAN to iterate keys matching pattern.
func scanKeys(ctx context.Context, client *redis.Client, pattern string, countHint int64) ([]string, error) {
	var cursor uint64
	var keys []string
	for {
		batch, nextCursor, err := client.Scan(ctx, cursor, pattern, countHint).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	return keys, nil
}

// InterfaceTable derives the interface-to-VLAN mapping:
//   - a port with an INTERFACE entry is routed
//   - exactly one untagged membership yields that VLAN id
//   - any tagged or multiple membership yields trunk
//   - a PortChannel member reports its PortChannel's state
//   - anything else is Unassigned
//
// Ports come first in natural order, followed by PortChannels.
func (s *Snapshot) InterfaceTable() *vlan.Table {
	byPort := map[string][]VLANMemberEntry{}
	for _, m := range s.VLANMembers {
		byPort[m.Port] = append(byPort[m.Port], m)
	}

	state := func(name string) vlan.Value {
		if s.RoutedInterfaces[name] {
			return vlan.ParseValue(vlan.TokenRouted)
		}
		members := byPort[name]
		switch {
		case len(members) == 0:
			return vlan.ParseValue(Unassigned)
		case len(members) == 1 && members[0].TaggingMode != "tagged":
			return vlan.ParseValue(strings.TrimPrefix(members[0].VLAN, "Vlan"))
		default:
			return vlan.ParseValue(vlan.TokenTrunk)
		}
	}

	ports := append([]string(nil), s.Ports...)
	sort.Slice(ports, func(i, j int) bool { return util.CompareInterfaceNames(ports[i], ports[j]) < 0 })
	lags := append([]string(nil), s.PortChannels...)
	sort.Slice(lags, func(i, j int) bool { return util.CompareInterfaceNames(lags[i], lags[j]) < 0 })

	table := vlan.NewTable()
	for _, p := range ports {
		if lag, ok := s.PortChannelMembers[p]; ok {
			table.Set(p, state(lag))
			continue
		}
		table.Set(p, state(p))
	}
	for _, lag := range lags {
		table.Set(lag, state(lag))
	}
	return table
}
