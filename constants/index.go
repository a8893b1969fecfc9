package constants

const (
	ERROR_INPUT   = "Invalid input"
	QUERY_ERROR   = "Database query failed"
	NOT_FOUND     = "Resource not found"
	CRAWL_FAILED  = "Crawl cycle failed"
	INVALID_RANGE = "dateTo must be after dateFrom"
)
