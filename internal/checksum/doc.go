// Package checksum provides SHA-256 content digests for CSV files.
//
// Loads are not idempotent, so the digest of each streamed file is the
// operator's record of exactly which bytes reached the table. The loader
// hashes client-mode files while they stream over COPY using HashingReader;
// `pgcsv ls --checksum` computes the same digests up front with
// CalculateReader so the two can be compared.
//
// # Example Usage
//
//	hr := checksum.NewHashingReader(file)
//	tag, err := conn.PgConn().CopyFrom(ctx, hr, sql)
//	fmt.Println(hr.Sum(), hr.BytesRead())
//
// # Thread Safety
//
// SHA256 is safe for concurrent use by multiple goroutines. A HashingReader
// belongs to a single stream and is not.
package checksum
