/*
Package display holds presentation metadata for the flow editor canvas and the landing
pages: node classification, per-node hue, title keys and icons, and typography classes.

Everything here is a pure table or a pure function of its input.
*/
package display
