package enums

type Genre string

const (
	GenreElectronic Genre = "electronic"
	GenreLofi       Genre = "lofi"
	GenreSynthwave  Genre = "synthwave"
	GenreHipHop     Genre = "hiphop"
	GenreRock       Genre = "rock"
	GenrePop        Genre = "pop"
	GenreAmbient    Genre = "ambient"
	GenreJazz       Genre = "jazz"
)
