package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Store --dir ../domain/draft --output domain/draft --outpkg draftmock --filename store_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Publisher --dir ../domain/draft --output domain/draft --outpkg draftmock --filename publisher_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name StatsCollector --dir ../usecase --output usecase --outpkg usecasemock --filename stats_collector_mock.go
