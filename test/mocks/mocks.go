// test/mocks/mocks.go

// Package mocks contains generated mocks for the application's interfaces.
// To regenerate mocks, run `make mocks` from the root directory.
package mocks

//go:generate mockgen -source=../../internal/core/ports/ledger_store.go -destination=ledger_store_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/catalog_store.go -destination=catalog_store_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/article_service.go -destination=article_service_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/product_service.go -destination=product_service_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/cache.go -destination=cache_repository_mock.go -package=mocks
