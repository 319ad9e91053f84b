package curator

import "github.com/omerhaim/origindaily/internal/domain"

// sampleRecords is the last-resort set served when every fetch path failed.
// Well-known public figures with stable Commons thumbnails.
var sampleRecords = []domain.ImageRecord{
	{
		ID:        "sample_arab_1",
		Title:     "אחמד טיבי",
		ImageURL:  "https://upload.wikimedia.org/wikipedia/commons/thumb/3/3e/Ahmad_Tibi.jpg/250px-Ahmad_Tibi.jpg",
		SourceURL: "https://he.wikipedia.org/wiki/%D7%90%D7%97%D7%9E%D7%93_%D7%98%D7%99%D7%91%D7%99",
		Group:     domain.GroupArab,
	},
	{
		ID:        "sample_arab_2",
		Title:     "איימן עודה",
		ImageURL:  "https://upload.wikimedia.org/wikipedia/commons/thumb/d/d4/Ayman_Odeh_2015.jpg/250px-Ayman_Odeh_2015.jpg",
		SourceURL: "https://he.wikipedia.org/wiki/%D7%90%D7%99%D7%99%D7%9E%D7%9F_%D7%A2%D7%95%D7%93%D7%94",
		Group:     domain.GroupArab,
	},
	{
		ID:        "sample_mizrahi_1",
		Title:     "אמיר פרץ",
		ImageURL:  "https://upload.wikimedia.org/wikipedia/commons/thumb/6/63/Amir_Peretz_2019.jpg/250px-Amir_Peretz_2019.jpg",
		SourceURL: "https://he.wikipedia.org/wiki/%D7%90%D7%9E%D7%99%D7%A8_%D7%A4%D7%A8%D7%A5",
		Group:     domain.GroupMizrahi,
	},
	{
		ID:        "sample_mizrahi_2",
		Title:     "אריה דרעי",
		ImageURL:  "https://upload.wikimedia.org/wikipedia/commons/thumb/9/9d/Aryeh_Deri_2021.jpg/250px-Aryeh_Deri_2021.jpg",
		SourceURL: "https://he.wikipedia.org/wiki/%D7%90%D7%A8%D7%99%D7%94_%D7%93%D7%A8%D7%A2%D7%99",
		Group:     domain.GroupMizrahi,
	},
}
