// Package parts provides the immutable part catalog for the Car Workshop Game.
//
// The parts package implements:
//   - Part definitions with gameplay properties and attachment requirements
//   - Morph relationships (a parent part presenting interchangeable variants)
//   - Catalog lookup, pickable and reverse-requirement queries
//   - Aggregation of placed parts into CarProperties
//   - The road-legality verdict that gates the driving mode
//
// Core Types:
//
// Part describes a single catalog entry: its properties, the attachment
// points it requires, covers, and provides. Catalog is the load-once table
// of all parts, decoded from JSON. CarProperties is the pure aggregate of a
// placed-part list, with per-attribute sum/max/flag policies.
//
// Aggregation Policy:
//
// The mix of summed, maximum-of, and flag attributes is intentional and
// per-field (see Aggregate). Getting a single field's policy wrong silently
// breaks road-legality, so the policies are encoded explicitly rather than
// as a generic reduction.
//
// Usage:
//
//	catalog, err := parts.LoadCatalog(data, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	props := catalog.Aggregate(parts.DefaultCarParts())
//	if !props.IsRoadLegal() {
//		fmt.Println(props.RoadLegalFailures())
//	}
package parts
