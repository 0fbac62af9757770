package seed

import (
	"fmt"

	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/models"
)

// Default returns the registry used when no seeds file is configured.
func Default() *Registry {
	r, err := FromFile(&File{
		SystemNickname: "Harmony",
		Users: []User{
			{SecretCode: "1312", Nickname: "Принцеса", Avatar: "fas fa-crown", Color: "#ffcfe1", Role: models.RoleAdmin},
			{SecretCode: "demo", Nickname: "Гість", Avatar: "fas fa-user", Color: "#ffb6d0", Role: models.RoleUser},
		},
		DemoSongs: []Song{
			{Title: "Інь-Ян", Artist: "Arina Polishchuk", Duration: "3:45", URL: SampleMediaURL(1), Color: "#ffcfe1"},
			{Title: "Сонячна", Artist: "Melovin", Duration: "3:22", URL: SampleMediaURL(2), Color: "#ffb6d0"},
			{Title: "Веснянка", Artist: "Океан Ельзи", Duration: "4:15", URL: SampleMediaURL(3), Color: "#ffa8d9"},
			{Title: "Місто Весни", Artist: "СКАЙ", Duration: "3:58", URL: SampleMediaURL(4), Color: "#ff9ac8"},
			{Title: "Ти і Я", Artist: "The Hardkiss", Duration: "4:32", URL: SampleMediaURL(5), Color: "#ff8cb7"},
		},
	})
	if err != nil {
		panic(err)
	}
	return r
}

// SampleMediaURL returns one of the sixteen public sample tracks.
func SampleMediaURL(n int) string {
	if n < 1 {
		n = 1
	}
	return fmt.Sprintf("https://www.soundhelix.com/examples/mp3/SoundHelix-Song-%d.mp3", (n-1)%16+1)
}
