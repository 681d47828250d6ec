// Package segmenter splits lease text into clause-sized chunks.
//
// Lines matching a legal heading pattern (articles, sections, decimal
// sub-sections, all-caps numbered headings, lettered and roman
// sub-clauses, exhibits and schedules) open a new section. Each section
// becomes one chunk when it fits the size bound; larger sections are
// packed greedily by paragraph, and oversized paragraphs by sentence.
// Chunks that are too short, mostly non-alphabetic or pure signature
// boilerplate are dropped.
//
// Form feeds in the input mark page breaks. When present, every chunk
// carries the 1-based page its first paragraph starts on.
package segmenter
