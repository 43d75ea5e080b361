package pages

// Technologies lists the stack the site is built on.
func Technologies() Page {
	return Page{
		Slug:  "technologies",
		Route: "/technologies",
		Meta: Meta{
			Title:       "Технологии",
			Description: "Фудграм - Технологии",
			OGTitle:     "Технологии",
		},
		Heading: "Технологии",
		Sections: []Section{
			{
				Heading: "Технологии, которые применены в этом проекте:",
				Blocks: []Block{
					{
						Kind: List,
						Items: [][]Span{
							item("Python", "основной язык для бэкенда."),
							item("Django", "веб-фреймворк для разработки серверной части."),
							item("Django REST Framework", "для создания гибкого и мощного API."),
							item("PostgreSQL", "в качестве основной реляционной базы данных."),
							item("React", "для построения динамического и отзывчивого пользовательского интерфейса."),
							item("Docker и Docker Compose", "для контейнеризации и оркестрации всего приложения."),
							item("Nginx", "в качестве веб-сервера и обратного прокси для раздачи статики и перенаправления запросов."),
							item("Gunicorn", "как WSGI-сервер для запуска Django-приложения в продакшене."),
							item("GitHub Actions", "для автоматизации процессов CI/CD (непрерывной интеграции и доставки)."),
						},
					},
				},
			},
		},
	}
}
