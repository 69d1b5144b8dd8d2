// Package directions decodes and encodes responses of the driving
// directions API (routes, legs, steps, intersections, lanes and waypoints).
//
// The wire uses the upstream snake_case names (weight_name, admin_index,
// mapbox_streets_v8, ...). Records use Go field names. Every object is
// closed: an undeclared key fails with unknown_key.
//
//	resp, err := directions.Decode(body)
//	if iss, ok := skema.AsIssues(err); ok {
//		// iss[0].Path points at the offending value, e.g. /routes/0/legs/0/summary
//	}
//	route, ok := resp.Best()
package directions
