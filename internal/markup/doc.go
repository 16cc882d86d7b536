// Package markup turns free-form documentation comments into a Document tree.
//
// # Blocks
//
// Parsing is line oriented and recursive over indentation. Relative to the
// current margin:
//
//   - a run of non-blank lines with no block prefix is a Paragraph;
//   - lines indented further than the margin form a Verbatim block;
//   - "*", "-", "1.", "a.", "[label]" and "label::" start List items whose
//     bodies are parsed recursively;
//   - "=" runs start a Heading (level clamped to 1..6);
//   - "---" alone is a Rule and ">" lines form a BlockQuote.
//
// # Spans
//
// Paragraph, heading and item text goes through a second, non-recursive pass
// that recognises *bold*, _italic_, +mono+ (and the <b>, <em>, <tt> tag
// forms), hyperlinks and cross references. Cross references only carry the
// raw token; resolving them against the registry belongs to renderers.
//
// Parsing never fails: unterminated markers and unknown constructs are kept
// as literal text.
package markup
