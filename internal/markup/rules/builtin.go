package rules

import (
	"sync"

	"github.com/dlclark/regexp2"
)

const backtick = "`"

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the process-wide table used by the formatter. It is built
// once and never mutated; use With to derive extended tables.
func Default() *Table {
	defaultOnce.Do(func() {
		defaultTable = NewTable(Fallback(), Builtin()...)
	})
	return defaultTable
}

// Fallback turns any remaining `word: value` line into a labeled block.
func Fallback() Rule {
	return Regex("fallback.label",
		`(\n\s*)(\w+):\s(.+)`,
		`${1}<div class="item ${2}"><span class="label">${2}</span><span class="value">${3}</span></div>`)
}

// Builtin returns the ordered markup rules, most specific first. The
// fallback is not included.
func Builtin() []Rule {
	var out []Rule
	out = append(out, containers()...)
	out = append(out, comments()...)
	out = append(out, variables()...)
	out = append(out, boxes()...)
	out = append(out, headings()...)
	out = append(out, rulers()...)
	out = append(out, emphasis()...)
	out = append(out, media()...)
	out = append(out, lists()...)
	out = append(out, embeds()...)
	out = append(out, links()...)
	out = append(out, audio()...)
	out = append(out, controls()...)
	out = append(out, blocks()...)
	return out
}

// ::BEGIN/::END consume their leading newline.
func containers() []Rule {
	return []Rule{
		Regex("container.begin",
			`\n\s*::BEGIN:(\w+)?:?(.+)?`,
			`<div class="CONTAINER ${1}" data-id="${2}">`),
		Regex("container.end",
			`\n\s*::END:(\w+)?:?(md5|sha256|sha512)?:?(.+)?`,
			`</div>`),
	}
}

func comments() []Rule {
	return []Rule{
		Regex("comment", `\n?\s+?//(.+)`, `<div class="comment">${1}</div>`),
	}
}

func variables() []Rule {
	return []Rule{
		Regex("var.plain",
			`(\n\s*)(var):(.+)`,
			`${1}<div class="item ${2}"><span class="label">${2}</span><span class="value">${3}</span></div>`),
		Regex("var.marker",
			`(\n\s*)(var)\[(.+)\]:(.+)`,
			`${1}<div class="item ${2}"><span class="label">${3}</span><span class="value">${4}</span></div>`),
	}
}

func boxes() []Rule {
	return []Rule{
		Regex("box.begin", `(\n\s*)::begin:(\w+)?:?(.+)?`, `${1}<div class="box ${2}" data-id="${3}">`),
		Regex("box.end", `(\n\s*)::end:(\w+)?:?(md5|sha256|sha512)?-?(.+)?`, `${1}</div>`),
	}
}

func headings() []Rule {
	return []Rule{
		Regex("heading.h4", `(\n\s*)####\s(.+)`, `${1}<h4>${2}</h4>`),
		Regex("heading.h3", `(\n\s*)###\s(.+)`, `${1}<h3>${2}</h3>`),
		Regex("heading.h2", `(\n\s*)##\s(.+)`, `${1}<h2>${2}</h2>`),
		Regex("heading.h1", `(\n\s*)#\s(.+)`, `${1}<h1>${2}</h1>`),
	}
}

func rulers() []Rule {
	return []Rule{
		Regex("hr.double.xsmall", `(\n\s*)={4,}(\n)`, `${1}<hr class="double xsmall" />${2}`),
		Regex("hr.double.small", `(\n\s*)={3}(\n)`, `${1}<hr class="double small" />${2}`),
		Regex("hr.double.medium", `(\n\s*)={2}(\n)`, `${1}<hr class="double medium" />${2}`),
		Regex("hr.double.large", `(\n\s*)=(\n)`, `${1}<hr class="double large" />${2}`),
		Regex("hr.single.xsmall", `(\n\s*)-{4,}(\n)`, `${1}<hr class="single xsmall"/>${2}`),
		Regex("hr.single.small", `(\n\s*)-{3}(\n)`, `${1}<hr class="single small"/>${2}`),
		Regex("hr.single.medium", `(\n\s*)-{2}(\n)`, `${1}<hr class="single medium"/>${2}`),
		Regex("hr.single.large", `(\n\s*)-(\n)`, `${1}<hr class="single large"/>${2}`),
	}
}

// The strong rule skips spans followed by an odd number of backticks (inside
// inline code) and spans that sit inside an open tag.
func emphasis() []Rule {
	strong := `(\*\*|__)` +
		`(?=(?:(?:[^` + backtick + `]*` + backtick + `[^` + backtick + `\n]*` + backtick + `)*[^` + backtick + `]*\z))` +
		`(?![^/<]*>.*</.+>)` +
		`(.*?)\1`

	return []Rule{
		Lookaround("emphasis.strong", strong, `<strong>$2</strong>`, regexp2.None),
		Regex("code.fenced", `(?s)`+backtick+`{3}(.*?)`+backtick+`{3}`, "\n<pre><code>${1}</code></pre>\n"),
		Regex("code.inline", backtick+`(.*?)`+backtick, `<code>${1}</code>`),
		Regex("emphasis.bold", `(\*\*)(.+)?(\*\*)`, `<b>${2}</b>`),
	}
}

func media() []Rule {
	return []Rule{
		Regex("media.image", `(\n\s*)img:\s?(.+)`, `${1}<div class="image"><img src="${2}" /></div>`),
		Regex("media.thumbnail", `(\n\s*)thumb(?:nail)?:\s?(.+)`, `${1}<div class="thumbnail"><img src="${2}" /></div>`),
		Regex("media.button",
			`(\n\s*)(button)\[(.+)\]:\s?(.+)`,
			`${1}<button class="btn ${2}" title="${3}" data-button="${4}">${3}</button>`),
	}
}

func lists() []Rule {
	return []Rule{
		Regex("list.number", `(\n\s*)(\d+)\. (.+)`, `${1}<div class="number-item" data-label="${2}">${3}</div>`),
		Regex("list.quote", `(\n\s*)> (.+)`, `${1}<div class="list-item">${2}</div>`),
		Regex("list.dash", `(\n\s*)- (.+)`, `${1}<div class="line-item">${2}</div>`),
	}
}

func embeds() []Rule {
	return []Rule{
		Regex("embed.pdf",
			`(\n\s*)(pdf):\s?(.+)`,
			`${1}<div class="${2}"><iframe width="100%" height="100%" src="${3}" frameborder="0"></iframe></div>`),
		Regex("embed.youtube",
			`(\n\s*)(youtube):\s?(.+)`,
			`${1}<div class="center youtube-video-player"><iframe src="https://www.youtube.com/embed/${3}" frameborder="0"></iframe></div>`),
	}
}

// href forms drop the indentation of their line.
func links() []Rule {
	return []Rule{
		Regex("link.url",
			`(\n\s*)(link):\s?(.+)`,
			`${1}<div class="item ${2}"><span class="label">link</span><span class="value"><a href="${3}" class="${2}" alt="${2}" target="_blank">${3}</a></span></div>`),
		Regex("link.labeled",
			`(\n\s*)(link)\[(.+)\]:\s?(.+)`,
			`${1}<div class="item ${2}"><span class="label">link</span><span class="value"><a href="${4}" class="${2}" alt="${3}" target="${2}">${3}</a></span></div>`),
		Regex("href.numbered",
			`(\n\s*)(href)\[(\d+):(.+)\]:\s?(.+)`,
			"\n"+`<div class="number-item" data-label="${3}"><a href="${5}" class="${2}" alt="${4}">${4}</a></div>`),
		Regex("href.labeled",
			`(\n\s*)(href)\[(.+)\]:\s?(.+)`,
			"\n"+`<a href="${4}" class="${2}" alt="${3}">${3}</a>`),
	}
}

func audio() []Rule {
	return []Rule{
		Regex("audio.tts",
			`(\n\s*)(audio)\[(tts)\]:\s?(.+)`,
			`${1}<div class="item ${2} ${3}"><span class="label">${2}</span><span class="value"><audio src="${4}" controls autoplay></audio></span></div>`),
		Regex("audio.player",
			`(\n\s*)(audio):\s?(.+)`,
			`${1}<div class="item ${2}"><span class="label">${2}</span><span class="value"><audio class="${2}-player" src="${3}" controls></audio></span></div>`),
		Regex("video.player",
			`(\n\s*)(video):\s?(.+)`,
			`${1}<div class="item ${2}"><span class="label">${2}</span><span class="value"><video class="${2}-player" src="${3}" controls></video></span></div>`),
	}
}

func controls() []Rule {
	return []Rule{
		Literal("control.press_return",
			"[PRESS RETURN]",
			`<div class="press_return"><button class="btn return" title="Press Return" data-cloudbtn="">Press Return</button></div>`),
	}
}

func blocks() []Rule {
	return []Rule{
		Regex("block.line", `(?i)(\n\s*)(l):\s?(.+)`, `${1}<div class="line">${3}</div>`),
		Regex("block.speak",
			`(?i)(\n\s*)(p|h1|h2|h3|h4|h5|article)\[speak:(.+)?\]:\s?(.+)`,
			`${1}<${2}><button class="btn speak" alt="Speak" data-cmd="#voice say:${3} ${4}">💬</button> ${4}</${2}>`),
		Regex("block.tag",
			`(?i)(\n\s*)(p|div|span|h1|h2|h3|h4|h5|article|section|br):\s?(.+)`,
			`${1}<${2}>${3}</${2}>`),
	}
}
