package seeder

func Defaults() []Seeder {
	return []Seeder{
		ProjectsSeeder{},
		DevelopersSeeder{},
		ApplicationsSeeder{},
	}
}
