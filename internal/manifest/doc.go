// Package manifest reads and writes the media manifest, the JSON index of
// published file names per mobility slug.
//
// The file looks like:
//
//	{
//	  "kickoff-macedonia": {
//	    "images": ["image1.jpg", "image2.png"],
//	    "videos": [],
//	    "pdfs": ["pdf1.pdf"],
//	    "ppts": []
//	  }
//	}
//
// Slugs keep the order they were added in, and entry keys always appear in the
// order images, videos, pdfs, ppts, so the same sync produces the same bytes.
//
// Write is used by the sync command. Page rendering goes through Resolver,
// which degrades to "no assets" instead of returning errors.
package manifest
