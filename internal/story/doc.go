// Package story loads harvested story collections and prepares them for
// narration.
//
// A collection is a JSON array written by the story harvester, one file per
// harvest named "<source>_stories_<YYYYmmdd_HHMMSS>.json". LoadFile decodes a
// collection, rejects records that cannot be narrated and reports why, and
// drops reposts whose content is nearly identical to an earlier story.
package story
