package loader

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"time"

	"github.com/lintang-b-s/geo-analysis/pkg/geo"

	"github.com/k0kubun/go-ansi"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/schollz/progressbar/v3"
)

// tags that make a named osm object worth loading as an entity.
var validEntityTags = map[string]bool{
	"amenity":          true,
	"building":         true,
	"tourism":          true,
	"leisure":          true,
	"historic":         true,
	"shop":             true,
	"office":           true,
	"healthcare":       true,
	"public_transport": true,
	"railway":          true,
	"aeroway":          true,
	"emergency":        true,
	"place":            true,
	"craft":            true,
	"sport":            true,
}

// OSMOptions. Progress receives the loading progress bar, nil disables it.
type OSMOptions struct {
	Progress io.Writer
	Procs    int
}

// DefaultOSMOptions reports progress on stderr and decodes blocks on every available CPU.
func DefaultOSMOptions() OSMOptions {
	return OSMOptions{
		Progress: ansi.NewAnsiStderr(),
		Procs:    runtime.GOMAXPROCS(0),
	}
}

// LoadOSM turns the named nodes and ways of an .osm.pbf extract into entities.
// ways are placed at the middle of their node extent. two passes: ways first, then the nodes they need.
func LoadOSM(ctx context.Context, path string, opts OSMOptions) ([]geo.LocatedEntity, error) {
	if opts.Procs <= 0 {
		opts.Procs = 1
	}
	bar := newProgressBar(opts.Progress, 3, "[cyan][1/2]Scanning osm ways...")

	c := newOSMCollector()

	err := scanPBF(ctx, path, opts.Procs, func(s *osmpbf.Scanner) {
		s.SkipNodes = true
		s.SkipRelations = true
	}, func(o osm.Object) {
		if w, ok := o.(*osm.Way); ok {
			c.addWay(w)
		}
	})
	if err != nil {
		return nil, err
	}
	_ = bar.Add(1)

	bar.Describe("[cyan][2/2]Scanning osm nodes...")
	err = scanPBF(ctx, path, opts.Procs, func(s *osmpbf.Scanner) {
		s.SkipWays = true
		s.SkipRelations = true
	}, func(o osm.Object) {
		if n, ok := o.(*osm.Node); ok {
			c.addNode(n)
		}
	})
	if err != nil {
		return nil, err
	}
	_ = bar.Add(1)

	entities := c.entities()
	_ = bar.Add(1)
	_ = bar.Finish()
	return entities, nil
}

func scanPBF(ctx context.Context, path string, procs int, configure func(*osmpbf.Scanner), fn func(osm.Object)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := osmpbf.New(ctx, f, procs)
	defer scanner.Close()
	configure(scanner)

	for scanner.Scan() {
		fn(scanner.Object())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan %s: %w", path, err)
	}
	return nil
}

func newProgressBar(w io.Writer, steps int64, description string) *progressbar.ProgressBar {
	if w == nil {
		return progressbar.DefaultSilent(steps)
	}
	return progressbar.NewOptions64(steps,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

type osmWay struct {
	id        osm.WayID
	nodeIDs   []osm.NodeID
	tags      osm.Tags
	timestamp time.Time
}

type osmCollector struct {
	ways      []osmWay
	wayNodes  map[osm.NodeID]*geo.Coordinate
	nodeItems []geo.LocatedEntity
}

func newOSMCollector() *osmCollector {
	return &osmCollector{
		wayNodes: make(map[osm.NodeID]*geo.Coordinate),
	}
}

func (c *osmCollector) addWay(w *osm.Way) {
	if !isEntity(w.Tags) {
		return
	}

	way := osmWay{
		id:        w.ID,
		tags:      w.Tags,
		timestamp: w.Timestamp,
	}
	for _, n := range w.Nodes {
		way.nodeIDs = append(way.nodeIDs, n.ID)
		c.wayNodes[n.ID] = nil
	}
	c.ways = append(c.ways, way)
}

func (c *osmCollector) addNode(n *osm.Node) {
	if _, ok := c.wayNodes[n.ID]; ok {
		coord := geo.NewCoordinate(n.Lat, n.Lon)
		c.wayNodes[n.ID] = &coord
	}
	if !isEntity(n.Tags) {
		return
	}
	c.nodeItems = append(c.nodeItems, newOSMEntity(n.FeatureID().String(), n.Lat, n.Lon, n.Tags, n.Timestamp))
}

// entities returns nodes first then ways, ways without any resolved node are dropped.
func (c *osmCollector) entities() []geo.LocatedEntity {
	entities := make([]geo.LocatedEntity, 0, len(c.nodeItems)+len(c.ways))
	entities = append(entities, c.nodeItems...)

	for _, w := range c.ways {
		lat, lon := []float64{}, []float64{}
		for _, id := range w.nodeIDs {
			coord := c.wayNodes[id]
			if coord == nil {
				continue
			}
			lat = append(lat, coord.Lat)
			lon = append(lon, coord.Lng)
		}
		if len(lat) == 0 {
			continue
		}
		sort.Float64s(lat)
		sort.Float64s(lon)

		midLat, midLon := geo.MidPoint(lat[0], lon[0], lat[len(lat)-1], lon[len(lon)-1])
		entities = append(entities, newOSMEntity(w.id.FeatureID().String(), midLat, midLon, w.tags, w.timestamp))
	}
	return entities
}

func newOSMEntity(key string, lat, lon float64, tags osm.Tags, ts time.Time) geo.LocatedEntity {
	date := ""
	if !ts.IsZero() {
		date = ts.UTC().Format(time.RFC3339)
	}
	return geo.NewLocatedEntity(key, lat, lon, date, osmObjectType(tags))
}

func isEntity(tags osm.Tags) bool {
	if tags.Find("name") == "" {
		return false
	}
	for _, t := range tags {
		if validEntityTags[t.Key] {
			return true
		}
	}
	return false
}

// osmObjectType. value of the first descriptive tag, "" if none.
func osmObjectType(tags osm.Tags) string {
	for _, k := range []string{"amenity", "historic", "tourism", "leisure", "shop", "office",
		"healthcare", "public_transport", "railway", "aeroway", "emergency", "place", "craft", "sport"} {
		if v := tags.Find(k); v != "" {
			return v
		}
	}
	if tags.Find("building") != "" {
		return "building"
	}
	return ""
}
