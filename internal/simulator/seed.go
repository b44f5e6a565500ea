package simulator

import (
	"context"
	"fmt"
)

type seedArtist struct {
	id     string
	name   string
	genres []string
	albums []seedAlbum
}

type seedAlbum struct {
	id     string
	name   string
	tracks []seedTrack
}

type seedTrack struct {
	id         string
	name       string
	durationMS int
}

var seedCatalog = []seedArtist{
	{
		id: "led-zeppelin", name: "Led Zeppelin", genres: []string{"rock", "hard rock"},
		albums: []seedAlbum{
			{id: "led-zeppelin-iv", name: "Led Zeppelin IV", tracks: []seedTrack{
				{id: "black-dog", name: "Black Dog", durationMS: 296000},
				{id: "rock-and-roll", name: "Rock and Roll", durationMS: 220000},
				{id: "stairway-to-heaven", name: "Stairway to Heaven", durationMS: 482000},
			}},
			{id: "physical-graffiti", name: "Physical Graffiti", tracks: []seedTrack{
				{id: "kashmir", name: "Kashmir", durationMS: 517000},
				{id: "trampled-under-foot", name: "Trampled Under Foot", durationMS: 336000},
			}},
		},
	},
	{
		id: "miles-davis", name: "Miles Davis", genres: []string{"jazz", "bebop"},
		albums: []seedAlbum{
			{id: "kind-of-blue", name: "Kind of Blue", tracks: []seedTrack{
				{id: "so-what", name: "So What", durationMS: 545000},
				{id: "freddie-freeloader", name: "Freddie Freeloader", durationMS: 589000},
				{id: "blue-in-green", name: "Blue in Green", durationMS: 327000},
			}},
		},
	},
	{
		id: "daft-punk", name: "Daft Punk", genres: []string{"electronic", "house"},
		albums: []seedAlbum{
			{id: "discovery", name: "Discovery", tracks: []seedTrack{
				{id: "one-more-time", name: "One More Time", durationMS: 320000},
				{id: "harder-better", name: "Harder, Better, Faster, Stronger", durationMS: 224000},
				{id: "digital-love", name: "Digital Love", durationMS: 301000},
			}},
		},
	},
}

// Seed loads the fixture catalog. It is idempotent.
func Seed(ctx context.Context, store *Store) error {
	for _, artist := range seedCatalog {
		if err := store.InsertArtist(ctx, artist.id, artist.name, artist.genres); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		for _, album := range artist.albums {
			if err := store.InsertAlbum(ctx, album.id, album.name, artist.id); err != nil {
				return fmt.Errorf("seed catalog: %w", err)
			}
			for _, track := range album.tracks {
				if err := store.InsertTrack(ctx, track.id, track.name, album.id, track.durationMS); err != nil {
					return fmt.Errorf("seed catalog: %w", err)
				}
			}
		}
	}
	return nil
}
