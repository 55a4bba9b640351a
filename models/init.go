package models

import (
	"gallery/db"
)

func Init() {
	if err := db.Instance.AutoMigrate(&Album{}, &Asset{}, &SiteSettings{}); err != nil {
		panic(err)
	}
}
