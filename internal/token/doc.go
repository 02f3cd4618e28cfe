// Package token defines the line tokens of the LU intent format.
// Invariants:
//   - One token per physical line; EOF is the only token without a line.
//   - Token.Text is the line without its terminator, exactly as in the source.
//   - Token.Span matches Text; Token.Next is the offset right after the
//     line terminator ("\n" or "\r\n") or the end of the file.
//   - Token.Value is the meaningful payload (heading name, utterance text,
//     entity definition) with surrounding whitespace trimmed.
package token
