// Command storyreel turns harvested text stories into narrated, captioned
// vertical videos.
//
// make runs the whole pipeline for one story; narrate, subtitles and render
// expose its stages on their own. stories, history and doctor inspect the
// inputs, past runs and the local toolchain.
package main
