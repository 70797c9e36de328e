// Package region describes pixel rectangles on a captured window and the catalogue
// of named rectangles the reader knows how to find.
//
// # Coordinate System
//
// Rectangles use the same convention as the rest of the module: (0,0) is the
// top-left pixel of the window's client area, X grows rightward and Y grows
// downward. Left/Top are inclusive, Right/Bottom are exclusive, so
// Width = Right - Left and Height = Bottom - Top.
//
// # Design Resolution
//
// Catalogue rectangles are measured once against a single design resolution
// (2048x1152) and scaled at lookup time to the resolution the window is
// actually rendered at. Horizontal and vertical ratios are independent, which
// keeps ultra-wide and 16:10 layouts usable as long as the target stretches its UI.
//
// # Catalogue Files
//
// The built-in catalogue can be replaced with a YAML file:
//
//	design:
//	  width: 2048
//	  height: 1152
//	regions:
//	  card_name_deck_edit: {left: 59, top: 168, right: 424, bottom: 201}
package region
