// Package page combines a mobility from the registry with its manifest
// entry into the view a detail page renders.
//
// Build picks one of four modes:
//
//   - sections: the mobility defines sections and the manifest has assets.
//     Text and media blocks interleave in section order, and every asset no
//     section references is listed under Remaining.
//   - gallery: the manifest has assets but the mobility has no sections.
//   - legacy: no manifest assets, but the mobility lists legacy image or
//     video URLs.
//   - empty: nothing to show yet.
//
// Section indices outside the manifest lists are dropped silently.
package page
