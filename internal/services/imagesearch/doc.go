// Package imagesearch finds openly licensed illustrations for vocabulary
// words via the Openverse API and writes them into the image cache.
package imagesearch
