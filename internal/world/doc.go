// Package world holds the storyworld data model returned by the generation
// service, the request that produces it, and the structural check applied to
// every payload before it is displayed.
package world
