package pages

import "strings"

// About is the project description page.
func About(links Links) Page {
	return Page{
		Slug:  "about",
		Route: "/about",
		Meta: Meta{
			Title:       "О проекте",
			Description: "Фудграм - О проекте",
			OGTitle:     "О проекте",
		},
		Heading: "Привет!",
		Sections: []Section{
			{
				Heading: "Важное примечание",
				Kind:    Disclaimer,
				Blocks: []Block{
					para(
						text("Все рецепты и изображения, представленные на этом сайте, были взяты с ресурса "),
						Span{Text: sourceSiteName(links.SourceSiteURL), Href: links.SourceSiteURL, External: true},
						text(". Они размещены здесь исключительно в ознакомительных целях для демонстрации функциональности и возможностей этого веб-приложения и не предназначены для коммерческого использования."),
					),
				},
			},
			{
				Heading: "Что это за сайт?",
				Blocks: []Block{
					para(text("Цель этого сайта — дать возможность пользователям создавать и хранить рецепты на онлайн-платформе. Кроме того, можно скачать список продуктов, необходимых для приготовления блюда, просмотреть рецепты друзей и добавить любимые рецепты в список избранных.")),
					para(text("Чтобы использовать все возможности сайта — нужна регистрация. Проверка адреса электронной почты не осуществляется, вы можете ввести любой email.")),
					para(text("Заходите и делитесь своими любимыми рецептами!")),
				},
			},
			{
				Heading: "Ссылки",
				Kind:    Aside,
				Blocks: []Block{
					para(text("Код проекта находится тут - "), Span{Text: "Github", Href: links.RepositoryURL}),
					para(text("Автор проекта: "), Span{Text: links.AuthorName, Href: links.AuthorURL}),
				},
			},
		},
	}
}

// sourceSiteName strips the scheme so the link reads like "1000.menu".
func sourceSiteName(u string) string {
	u = strings.TrimPrefix(u, "https://")
	u = strings.TrimPrefix(u, "http://")
	return strings.TrimRight(u, "/")
}
