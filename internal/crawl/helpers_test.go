package crawl_test

import "ssdwatch/internal/product"

func productRecord(id string) product.Record {
	return product.Record{Identifier: id, Title: "title " + id}
}
