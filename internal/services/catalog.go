package services

// Catalog holds the fixed option lists offered by onboarding and discovery.
type Catalog struct {
	Majors            []string `json:"majors"`
	Years             []string `json:"years"`
	Colleges          []string `json:"colleges"`
	PopularInterests  []string `json:"popular_interests"`
	DiscoverInterests []string `json:"discover_interests"`
}

// UCSC undergraduate majors (B.A. and B.S.) from the general catalog.
var defaultMajors = []string{
	"Agroecology",
	"Ancient Studies",
	"Anthropology",
	"Applied Linguistics and Multilingualism",
	"Applied Mathematics",
	"Applied Physics",
	"Art",
	"Art and Design: Games and Playable Media",
	"Biochemistry and Molecular Biology",
	"Biology",
	"Biomolecular Engineering and Bioinformatics",
	"Biotechnology",
	"Business Management Economics",
	"Chemistry",
	"Classical Studies",
	"Cognitive Science",
	"Computer Engineering",
	"Computer Science",
	"Computer Science: Computer Game Design",
	"Critical Race and Ethnic Studies",
	"Earth Sciences",
	"Ecology and Evolutionary Biology",
	"Economics",
	"Education, Democracy and Justice",
	"Electrical Engineering",
	"Environmental Studies",
	"Feminist Studies",
	"Film and Digital Media",
	"Global and Community Health",
	"History",
	"History of Art and Visual Culture",
	"Human Biology",
	"Italian Studies",
	"Japanese Studies",
	"Jewish Studies",
	"Language Studies",
	"Latin American and Latino Studies",
	"Legal Studies",
	"Linguistics",
	"Literature",
	"Marine Biology",
	"Mathematics",
	"Molecular, Cell and Developmental Biology",
	"Music",
	"Neuroscience",
	"Philosophy",
	"Physics",
	"Physics (Astrophysics)",
	"Politics",
	"Psychology",
	"Robotics Engineering",
	"Science Education",
	"Sociology",
	"Spanish Studies",
	"Statistics",
	"Technology and Information Management",
	"Theater Arts",
}

var defaultYears = []string{"Freshman", "Sophomore", "Junior", "Senior", "Graduate"}

var defaultColleges = []string{
	"Cowell College",
	"Stevenson College",
	"Crown College",
	"Merrill College",
	"Porter College",
	"Kresge College",
	"Oakes College",
	"Rachel Carson College",
	"College Nine",
	"John R. Lewis College",
}

var defaultPopularInterests = []string{
	"Art", "Baking", "Board Games", "Camping", "Cooking", "Dancing", "Fitness",
	"Gaming", "Gardening", "Hiking", "Music", "Photography", "Reading", "Running",
	"Sports", "Swimming", "Technology", "Travel", "Volunteering", "Writing", "Yoga",
	"Film", "Theater", "Drawing", "Coding", "Rock Climbing", "Surfing", "Cycling",
	"Meditation", "Crafting",
}

var defaultDiscoverInterests = []string{
	"Art", "Board Games", "Camping", "Cooking", "Dancing", "Fitness",
	"Gaming", "Gardening", "Hiking", "Linguistics", "Movies", "Music", "Photography",
	"Reading", "Sports", "Technology", "Travel", "Writing", "Yoga",
}

// DefaultCatalog returns a copy of the built-in catalog.
func DefaultCatalog() Catalog {
	return Catalog{
		Majors:            append([]string(nil), defaultMajors...),
		Years:             append([]string(nil), defaultYears...),
		Colleges:          append([]string(nil), defaultColleges...),
		PopularInterests:  append([]string(nil), defaultPopularInterests...),
		DiscoverInterests: append([]string(nil), defaultDiscoverInterests...),
	}
}

func (c Catalog) HasMajor(major string) bool     { return contains(c.Majors, major) }
func (c Catalog) HasYear(year string) bool       { return contains(c.Years, year) }
func (c Catalog) HasCollege(college string) bool { return contains(c.Colleges, college) }

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
