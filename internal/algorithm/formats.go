// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package algorithm

import "strings"

// VectorFormat pairs an OGR driver name with its default file extension.
type VectorFormat struct {
	Name string
	Ext  string
}

// VectorFormats lists the output drivers offered by vector-writing
// algorithms. The index is the selection value.
var VectorFormats = []VectorFormat{
	{"ESRI Shapefile", ".shp"},
	{"GeoJSON", ".geojson"},
	{"GeoRSS", ".xml"},
	{"SQLite", ".sqlite"},
	{"GMT", ".gmt"},
	{"MapInfo File", ".tab"},
	{"INTERLIS 1", ".ili"},
	{"INTERLIS 2", ".ili"},
	{"GML", ".gml"},
	{"Geoconcept", ".txt"},
	{"DXF", ".dxf"},
	{"DGN", ".dgn"},
	{"CSV", ".csv"},
	{"BNA", ".bna"},
	{"S57", ".000"},
	{"KML", ".kml"},
	{"GPX", ".gpx"},
	{"PGDump", ".pgdump"},
	{"GPSTrackMaker", ".gtm"},
	{"ODS", ".ods"},
	{"XLSX", ".xlsx"},
	{"PDF", ".pdf"},
}

// VectorFormatNames returns the driver names in selection order.
func VectorFormatNames() []string {
	names := make([]string, len(VectorFormats))
	for i, f := range VectorFormats {
		names[i] = f.Name
	}
	return names
}

// WithExtension appends ext to path unless path already ends with it.
func WithExtension(path, ext string) string {
	if strings.HasSuffix(path, ext) {
		return path
	}
	return path + ext
}
