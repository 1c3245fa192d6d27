package postgres

// scannable abstracts pgx.Row and pgx.Rows so scan helpers work with both.
type scannable interface {
	Scan(dest ...any) error
}
